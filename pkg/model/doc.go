// Package model describes the serialized entities handled by relmon:
// pending release records, the packages they name, and the version
// strategies attached to them.
//
// Everything in this package marshals to yaml (and json) without loss:
// records written by one version of the tool must reopen identically.
package model
