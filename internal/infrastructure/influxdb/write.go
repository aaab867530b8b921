package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// measurementCageReadings is the measurement holding cage sensor history.
const measurementCageReadings = "cage_readings"

// WriteCageReading records one sensor update for a cage.
//
// The cage id and its assigned monitor become tags so dashboards can
// filter per cage or per customer monitor; the sensor values go in as
// fields. The write is non-blocking; data is batched and sent
// asynchronously.
//
// Example:
//
//	client.WriteCageReading("cage-001", "spm-100",
//	    map[string]interface{}{"temperature": 39.1, "humidity": 61.5},
//	    reading.Timestamp)
func (c *Client) WriteCageReading(cageID, assignedMonitor string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	point := write.NewPoint(
		measurementCageReadings,
		map[string]string{
			"cage_id": cageID,
			"monitor": assignedMonitor,
		},
		fields,
		timestamp,
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over measurement,
// tags and fields. Use for data that doesn't fit the helper above.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
