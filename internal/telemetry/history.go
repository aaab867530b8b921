package telemetry

import (
	"time"

	"github.com/Amdragz/fiya/internal/cage"
)

// ReadingWriter is the slice of the InfluxDB client the history
// recorder needs.
type ReadingWriter interface {
	WriteCageReading(cageID, assignedMonitor string, fields map[string]interface{}, timestamp time.Time)
}

// History records accepted cage readings to InfluxDB. It implements
// the cage service's HistoryWriter.
type History struct {
	writer ReadingWriter
}

// NewHistory creates a history recorder over an InfluxDB client.
func NewHistory(writer ReadingWriter) *History {
	return &History{writer: writer}
}

// Record writes one reading. The underlying write is batched and
// non-blocking, so the device update path never waits on InfluxDB.
func (h *History) Record(cageID, assignedMonitor string, readings *cage.Readings) {
	fields := map[string]interface{}{
		"temperature": readings.Temperature,
		"humidity":    readings.Humidity,
		"pressure":    readings.Pressure,
		"ammonia":     readings.Ammonia,
		"co2":         readings.CO2,
		"coccidiosis": readings.ObjectRecognition.Coccidiosis,
		"newcastle":   readings.ObjectRecognition.Newcastle,
		"salmonella":  readings.ObjectRecognition.Salmonella,
		"healthy":     readings.ObjectRecognition.Healthy,
	}

	h.writer.WriteCageReading(cageID, assignedMonitor, fields, readings.Timestamp)
}
