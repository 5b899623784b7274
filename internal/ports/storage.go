package ports

// PriceStore persists price histories and the usage ledger to durable storage.
// The backing store (bbolt) serializes writes; concurrent reads are safe.
// A crash mid-write must not corrupt previously committed data.
type PriceStore interface {
	// SaveHistory persists the full price history for a spool.
	// Overwrites any prior history for spoolID.
	SaveHistory(spoolID string, history *PriceHistory) error

	// LoadHistory retrieves the price history for a spool.
	// Returns nil, nil if no history exists (never tracked).
	LoadHistory(spoolID string) (*PriceHistory, error)

	// LoadAllHistories retrieves every tracked spool's history, keyed by spool ID.
	LoadAllHistories() (map[string]*PriceHistory, error)

	// AppendUsage adds one entry to the usage ledger.
	AppendUsage(entry *UsageEntry) error

	// LoadUsage retrieves the full usage ledger in append order.
	LoadUsage() ([]*UsageEntry, error)

	// Close releases the underlying database.
	Close() error
}

// PriceEntry is a single observed price point for a spool.
type PriceEntry struct {
	ID           string  `json:"id"`
	SpoolID      string  `json:"spool_id"`
	Material     string  `json:"material"`
	PricePerGram float64 `json:"price_per_gram"`
	Currency     string  `json:"currency"`
	Source       string  `json:"source,omitempty"` // e.g. "manual", "vendor:amazon"
	RecordedAt   int64   `json:"recorded_at"`      // unix seconds
}

// PriceHistory is the ordered price record for one spool.
// Entries are kept sorted by RecordedAt ascending.
type PriceHistory struct {
	SpoolID  string        `json:"spool_id"`
	Material string        `json:"material"`
	Entries  []*PriceEntry `json:"entries"`
}

// UsageEntry records filament consumed by one print job.
type UsageEntry struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	SpoolID     string  `json:"spool_id"`
	Material    string  `json:"material"`
	GramsUsed   float64 `json:"grams_used"`
	CostPerGram float64 `json:"cost_per_gram"`
	TotalCost   float64 `json:"total_cost"`
	Timestamp   int64   `json:"timestamp"` // when the usage occurred, unix seconds
	RecordedAt  int64   `json:"recorded_at"`
}
