// Package msgs defines the fixed-format messages exchanged between rover
// actors and the bounded mailboxes carrying them.
package msgs
