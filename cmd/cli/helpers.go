package cli

import (
	"time"

	"github.com/theomrc/linklocal/internal/config"
	"github.com/theomrc/linklocal/internal/store"
)

// openStore opens the local storage and runs the startup housekeeping pass:
// links expired for longer than the retention window are pruned before any
// command touches the collection.
func openStore(cfg *config.Config) (*store.GormLinkStore, error) {
	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Housekeep(retention(cfg)); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func retention(cfg *config.Config) time.Duration {
	days := cfg.Storage.RetentionDays
	if days <= 0 {
		return store.DefaultRetention
	}
	return time.Duration(days) * 24 * time.Hour
}
