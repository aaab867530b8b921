package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Amdragz/fiya/internal/cage"
	"github.com/Amdragz/fiya/internal/infrastructure/logging"
	"github.com/Amdragz/fiya/internal/infrastructure/mqtt"
)

// Sentinel errors for ingest failures. They surface in the MQTT
// client's handler-error log.
var (
	ErrBadTopic      = errors.New("telemetry: topic does not match readings scheme")
	ErrBadPayload    = errors.New("telemetry: malformed payload")
	ErrMissingSecret = errors.New("telemetry: payload missing device_secret")
)

// ReadingsUpdater is the slice of the cage service the ingestor needs.
type ReadingsUpdater interface {
	UpdateReadings(ctx context.Context, cageID, presentedSecret string, readings *cage.Readings) error
}

// Subscriber is the slice of the MQTT client the ingestor needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// deviceUpdate is the MQTT payload: the HTTP readings body plus the
// device secret, since MQTT has no Authorization header.
type deviceUpdate struct {
	cage.Readings
	DeviceSecret string `json:"device_secret"`
}

// Ingestor subscribes to cage readings topics and feeds updates into
// the cage service.
type Ingestor struct {
	cages  ReadingsUpdater
	qos    byte
	logger *logging.Logger
}

// NewIngestor creates a telemetry ingestor.
func NewIngestor(cages ReadingsUpdater, qos byte, logger *logging.Logger) *Ingestor {
	return &Ingestor{
		cages:  cages,
		qos:    qos,
		logger: logger.With("component", "telemetry"),
	}
}

// Start subscribes to the wildcard readings topic. The subscription is
// restored automatically by the MQTT client on reconnect.
func (i *Ingestor) Start(client Subscriber) error {
	topic := mqtt.Topics{}.AllCageReadings()
	if err := client.Subscribe(topic, i.qos, i.Handle); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}

	i.logger.Info("telemetry ingest started", "topic", topic)
	return nil
}

// Handle processes one readings message. The returned error is logged
// by the MQTT client; the message is dropped either way.
func (i *Ingestor) Handle(topic string, payload []byte) error {
	cageID, ok := mqtt.Topics{}.CageIDFromReadings(topic)
	if !ok {
		return fmt.Errorf("%w: %s", ErrBadTopic, topic)
	}

	var update deviceUpdate
	if err := json.Unmarshal(payload, &update); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBadPayload, cageID, err)
	}
	if update.DeviceSecret == "" {
		return fmt.Errorf("%w: %s", ErrMissingSecret, cageID)
	}

	if err := i.cages.UpdateReadings(context.Background(), cageID, update.DeviceSecret, &update.Readings); err != nil {
		return fmt.Errorf("updating cage %s: %w", cageID, err)
	}

	i.logger.Debug("readings ingested", "cage_id", cageID)
	return nil
}
