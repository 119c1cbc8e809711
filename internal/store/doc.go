// Package store provides read access to the reference data and trade volumes
// written by the writer package.
package store
