// Package convert routes raw user input to the decimal encoder or the Roman
// decoder and turns rule violations and range failures into typed errors.
package convert
