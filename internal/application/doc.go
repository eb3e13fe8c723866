// Package application turns resolved vCenter settings into the endpoint a
// vSphere client connects to, and into a redacted summary for display. It
// keeps the main package focused on CLI parsing and output.
package application
