// Package cage manages monitored livestock cages and their device
// credentials.
//
// A cage and its device credential are created in one SQL transaction:
// both rows land or neither does, so no cage can exist without a
// verifier and no orphaned verifier can authenticate anything. The raw
// device secret is returned to the provisioning caller exactly once and
// never stored — subsequent sensor updates re-derive the verifier from
// the presented secret and compare in constant time.
package cage
