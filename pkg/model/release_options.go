package model

import "time"

// ReleaseDescriptorOption is a functor to build release descriptors
type ReleaseDescriptorOption func(descriptor *ReleaseDescriptor)

// ReleaseContributors sets a list of contributors for the record
func ReleaseContributors(c []Contributor) ReleaseDescriptorOption {
	return func(rd *ReleaseDescriptor) {
		rd.Contributors = c
	}
}

// ReleaseContributor sets a single contributor for the record
func ReleaseContributor(c Contributor) ReleaseDescriptorOption {
	return ReleaseContributors([]Contributor{c})
}

// ReleaseTimestamp sets the record timestamp
func ReleaseTimestamp(t time.Time) ReleaseDescriptorOption {
	return func(rd *ReleaseDescriptor) {
		rd.Timestamp = t.UTC()
	}
}
