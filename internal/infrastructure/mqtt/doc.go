// Package mqtt provides MQTT client connectivity for the Fiya webservice.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Topic subscriptions with wildcard support
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Monitoring hardware in the field publishes sensor readings over MQTT
// rather than HTTP: cellular links drop frequently and the broker
// absorbs the retries. The webservice subscribes to the cage readings
// topics and feeds updates through the same verification path as the
// HTTP device endpoint.
//
//	Cage monitors → MQTT Broker → Fiya webservice
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllCageReadings(), 1,
//	    func(topic string, payload []byte) error {
//	        return ingest(topic, payload)
//	    })
package mqtt
