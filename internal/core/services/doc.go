// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The resolver and analyzer are pure: they perform no I/O and hold no
// state beyond an id generator and a clock.
package services
