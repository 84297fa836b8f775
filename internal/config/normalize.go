package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePartner()
	c.normalizeShipFrom()
	c.normalizeLotLookup()
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.ArchiveDir, err = expandPath(strings.TrimSpace(c.Paths.ArchiveDir)); err != nil {
		return fmt.Errorf("paths.archive_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePartner() {
	c.Partner.ID = strings.TrimSpace(c.Partner.ID)
	if c.Partner.ID == "" {
		c.Partner.ID = defaultPartnerID
	}
	c.Partner.SenderQualifier = strings.TrimSpace(c.Partner.SenderQualifier)
	c.Partner.SenderID = strings.TrimSpace(c.Partner.SenderID)
	c.Partner.ReceiverQualifier = strings.TrimSpace(c.Partner.ReceiverQualifier)
	c.Partner.ReceiverID = strings.TrimSpace(c.Partner.ReceiverID)
	c.Partner.UsageIndicator = strings.ToUpper(strings.TrimSpace(c.Partner.UsageIndicator))
	if c.Partner.UsageIndicator == "" {
		c.Partner.UsageIndicator = defaultUsageIndicator
	}
	c.Partner.NationalDrugCode = strings.TrimSpace(c.Partner.NationalDrugCode)
}

func (c *Config) normalizeShipFrom() {
	c.ShipFrom.Name = strings.TrimSpace(c.ShipFrom.Name)
	c.ShipFrom.Address = strings.TrimSpace(c.ShipFrom.Address)
	c.ShipFrom.City = strings.TrimSpace(c.ShipFrom.City)
	c.ShipFrom.State = strings.TrimSpace(c.ShipFrom.State)
	c.ShipFrom.Zip = strings.TrimSpace(c.ShipFrom.Zip)
}

func (c *Config) normalizeLotLookup() {
	if value, ok := os.LookupEnv("LOT_LOOKUP_URL"); ok && strings.TrimSpace(value) != "" {
		c.LotLookup.BaseURL = value
	}
	c.LotLookup.BaseURL = strings.TrimSpace(c.LotLookup.BaseURL)
	if c.LotLookup.BaseURL == "" {
		c.LotLookup.BaseURL = defaultLotLookupBaseURL
	}
	if c.LotLookup.Concurrency == 0 {
		c.LotLookup.Concurrency = defaultLotLookupConcurrency
	}
}

func (c *Config) normalizeStore() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case "":
		c.Store.Driver = defaultStoreDriver
	case "sqlite3":
		c.Store.Driver = StoreDriverSQLite
	case "postgresql", "pgx":
		c.Store.Driver = StoreDriverPostgres
	}
	if c.Store.DSN == "" {
		if value, ok := os.LookupEnv("ASN856_DATABASE_URL"); ok {
			c.Store.DSN = value
		} else if value, ok := os.LookupEnv("DATABASE_URL"); ok {
			c.Store.DSN = value
		}
	}
	c.Store.DSN = strings.TrimSpace(c.Store.DSN)

	var err error
	if strings.TrimSpace(c.Store.Path) == "" {
		c.Store.Path = filepath.Join(c.Paths.StateDir, defaultStoreFileName)
	}
	if c.Store.Path, err = expandPath(strings.TrimSpace(c.Store.Path)); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console", "text", "pretty":
		c.Logging.Format = "console"
	default:
		c.Logging.Format = format
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
