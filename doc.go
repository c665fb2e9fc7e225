// Package creditpane is a Bubble Tea component showing a credit balance and
// a purchase-selection modal. The component owns only transient UI state;
// the purchase itself is performed by a caller-supplied collaborator, and
// history navigation is delegated to the host program.
package creditpane
