// Package shop renders the paged exchange menu and turns offer selections into coordinator
// transactions. Per-player stock is counted from committed results.
package shop
