// Package telemetry ingests cage sensor updates arriving over MQTT and
// records accepted readings to InfluxDB.
//
// Field monitors publish to fiya/cages/{cage_id}/readings with the same
// payload as the HTTP device endpoint plus a device_secret field. Every
// update passes through the cage service's secret verification — the
// broker is transport, not trust.
//
// Ingest errors (malformed payloads, bad secrets, unknown cages) are
// logged and dropped; a misbehaving device cannot take the consumer
// down.
package telemetry
