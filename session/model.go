package session

// Store defines a public type used by shopauth APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	ProductStoreID string
	StoreName      string
}

// Sentinel is the synthetic "no store selected" entry appended to every
// fetched store list so downstream selection always has an addressable
// choice. Its ProductStoreID is the reserved empty string.
var Sentinel = Store{ProductStoreID: "", StoreName: "None"}

// Zero reports whether the store is the unresolved/empty store.
func (s Store) Zero() bool {
	return s.ProductStoreID == "" && s.StoreName == ""
}

// ShopConfig defines a public type used by shopauth APIs.
//
// ShopConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ShopConfig struct {
	ShopifyConfigID string
	Name            string
	ShopID          string
}

// Zero reports whether the config carries no channel binding.
func (c ShopConfig) Zero() bool {
	return c == ShopConfig{}
}

// Job is the descriptive record of a schedulable work item, fetched from the
// sibling job module when pinned-job preferences are hydrated.
type Job struct {
	JobID       string
	JobName     string
	Description string
}

// PinnedJobSet defines a public type used by shopauth APIs.
//
// PinnedJobSet instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PinnedJobSet struct {
	// ID is the backing preference-record identifier. Empty until the first
	// persisted write; later writes must reuse it (update, not create).
	ID   string
	Jobs []Job
}

// JobIDs returns the pinned identifiers in stored order.
func (p PinnedJobSet) JobIDs() []string {
	if len(p.Jobs) == 0 {
		return nil
	}
	ids := make([]string, len(p.Jobs))
	for i, j := range p.Jobs {
		ids[i] = j.JobID
	}
	return ids
}

// Profile is the user identity record returned by the profile endpoint,
// augmented during hydration with the accessible store list and the pinned
// job set.
type Profile struct {
	UserID       string
	UserLoginID  string
	PartyName    string
	Email        string
	UserTimeZone string

	Stores     []Store
	PinnedJobs PinnedJobSet
}
