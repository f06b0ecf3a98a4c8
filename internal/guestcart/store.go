package guestcart

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"storefront-cart/internal/domain"
)

// Keys in the kv table. Values are opaque to every other subsystem.
const (
	keyAnonymousID = "anonymous_id"
	keyCartLines   = "cart_lines"
	keySession     = "session"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Store is the durable client-side cart for an anonymous visitor, backed by
// SQLite. It owns the anonymous-session identifier and the guest cart lines
// until a successful merge hands them to the server.
//
// Every write replaces the whole serialized line list in one statement, so a
// failed write leaves the previous valid state intact.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	logger *log.Logger

	// cachedID keeps ID() stable within a process even if a later read of
	// the kv table fails.
	cachedID string
}

// Open creates or opens the guest cart database at the given path.
// Safe to call repeatedly on the same path.
func Open(path string, logger *log.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY between the tabs/processes sharing this profile.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ID returns the persisted anonymous identifier, generating and persisting a
// new one on first call. It is stable across calls and across reopens of the
// same database file.
func (s *Store) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.get(keyAnonymousID); ok {
		s.cachedID = id
		return id
	}
	if s.cachedID != "" {
		return s.cachedID
	}
	id := uuid.NewString()
	if !s.put(keyAnonymousID, id) {
		s.logger.Printf("guestcart: persisting anonymous id failed, using in-memory id")
	}
	s.cachedID = id
	return id
}

// Lines returns the current cart lines. It never fails: a missing or
// unreadable value yields an empty cart.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLines()
}

// AddLine appends a line for the product or, if one exists, increments its
// quantity. Returns false only on invalid quantity or a storage-layer
// failure.
func (s *Store) AddLine(productID string, snapshot domain.ProductSnapshot, quantity int) bool {
	if productID == "" || quantity < 1 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.readLines()
	found := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, domain.CartLine{
			ProductID: productID,
			Quantity:  quantity,
			Snapshot:  snapshot,
			AddedAt:   time.Now().UTC(),
		})
	}
	return s.writeLines(lines)
}

// UpdateQuantity sets the quantity for an existing line. Returns false if the
// product is absent, the quantity is below 1, or the write fails.
func (s *Store) UpdateQuantity(productID string, quantity int) bool {
	if quantity < 1 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.readLines()
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			return s.writeLines(lines)
		}
	}
	return false
}

// RemoveLine removes the product's line. Removing an absent product is not an
// error.
func (s *Store) RemoveLine(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.readLines()
	kept := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(lines) {
		return true
	}
	return s.writeLines(kept)
}

// Clear empties the cart. Used only after a confirmed merge.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, keyCartLines); err != nil {
		s.logger.Printf("guestcart: clear failed: %v", err)
	}
}

// Count returns the sum of all line quantities.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SumQuantities(s.readLines())
}

func (s *Store) readLines() []domain.CartLine {
	raw, ok := s.get(keyCartLines)
	if !ok {
		return nil
	}
	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.logger.Printf("guestcart: corrupt cart payload, treating as empty: %v", err)
		return nil
	}
	return lines
}

func (s *Store) writeLines(lines []domain.CartLine) bool {
	raw, err := json.Marshal(lines)
	if err != nil {
		s.logger.Printf("guestcart: encode cart: %v", err)
		return false
	}
	return s.put(keyCartLines, string(raw))
}

func (s *Store) get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Printf("guestcart: read %s: %v", key, err)
		}
		return "", false
	}
	return value, true
}

func (s *Store) put(key, value string) bool {
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		s.logger.Printf("guestcart: write %s: %v", key, err)
		return false
	}
	return true
}
