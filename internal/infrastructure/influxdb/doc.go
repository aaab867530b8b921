// Package influxdb provides InfluxDB connectivity for the Fiya webservice.
//
// It wraps the official influxdb-client-go v2 library with Fiya-specific
// patterns for connection management, reading writes, and health monitoring.
//
// # Purpose
//
// SQLite holds only the latest reading per cage; this package keeps the
// full sensor history so dashboards can chart temperature, air quality
// and disease-confidence trends over time.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "fiya",
//	    Bucket: "readings",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteCageReading("cage-001", "spm-100", fields, time.Now())
//
// # Error Handling
//
// Write operations are non-blocking and batched; async write errors are
// delivered via a callback. A slow or unreachable InfluxDB never delays
// the device update path.
package influxdb
