package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the Fiya MQTT namespace.
//
// Cage topics use the scheme: fiya/cages/{cage_id}/{category}
const (
	// TopicPrefix is the base for all Fiya topics.
	TopicPrefix = "fiya"

	// TopicPrefixCages is the base for cage telemetry topics.
	TopicPrefixCages = "fiya/cages"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "fiya/system"
)

// Topics provides builders for Fiya MQTT topics. Using these helpers
// keeps topic naming consistent between the service and device firmware.
//
//	topics := mqtt.Topics{}
//	readingsTopic := topics.CageReadings("cage-001")
//	// Returns: "fiya/cages/cage-001/readings"
type Topics struct{}

// CageReadings returns the topic a monitor publishes sensor updates on.
//
// Example: fiya/cages/cage-001/readings
func (Topics) CageReadings(cageID string) string {
	return fmt.Sprintf("%s/%s/readings", TopicPrefixCages, cageID)
}

// AllCageReadings returns the wildcard subscription covering every
// cage's readings topic.
//
// Example: fiya/cages/+/readings
func (Topics) AllCageReadings() string {
	return TopicPrefixCages + "/+/readings"
}

// CageAlert returns the topic the service publishes disease alerts on
// for a cage. Devices and dashboards may subscribe.
//
// Example: fiya/cages/cage-001/alert
func (Topics) CageAlert(cageID string) string {
	return fmt.Sprintf("%s/%s/alert", TopicPrefixCages, cageID)
}

// SystemStatus returns the service online/offline status topic.
//
// Example: fiya/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// CageIDFromReadings extracts the cage id from a readings topic.
// Returns false when the topic does not match the readings scheme.
func (Topics) CageIDFromReadings(topic string) (string, bool) {
	rest, found := strings.CutPrefix(topic, TopicPrefixCages+"/")
	if !found {
		return "", false
	}
	cageID, found := strings.CutSuffix(rest, "/readings")
	if !found || cageID == "" || strings.Contains(cageID, "/") {
		return "", false
	}
	return cageID, true
}
