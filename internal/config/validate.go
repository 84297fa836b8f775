package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePartner(); err != nil {
		return err
	}
	if err := c.validateLotLookup(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePartner() error {
	if err := ensureIdentifier(map[string]string{
		"partner.sender_id":   c.Partner.SenderID,
		"partner.receiver_id": c.Partner.ReceiverID,
	}); err != nil {
		return err
	}
	if len(c.Partner.SenderQualifier) != 2 {
		return errors.New("partner.sender_qualifier must be two characters")
	}
	if len(c.Partner.ReceiverQualifier) != 2 {
		return errors.New("partner.receiver_qualifier must be two characters")
	}
	switch c.Partner.UsageIndicator {
	case "P", "T":
	default:
		return errors.New("partner.usage_indicator must be P or T")
	}
	if strings.ContainsAny(c.Partner.ID, "~\"") {
		return errors.New("partner.id must not contain '~' or '\"'")
	}
	return nil
}

func (c *Config) validateLotLookup() error {
	if !c.LotLookup.Enabled {
		return nil
	}
	parsed, err := url.Parse(c.LotLookup.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("lot_lookup.base_url must be an absolute URL, got %q", c.LotLookup.BaseURL)
	}
	if c.LotLookup.TimeoutSeconds <= 0 {
		return errors.New("lot_lookup.timeout_seconds must be positive")
	}
	if c.LotLookup.Concurrency < 1 || c.LotLookup.Concurrency > maxLotLookupConcurrency {
		return fmt.Errorf("lot_lookup.concurrency must be between 1 and %d", maxLotLookupConcurrency)
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Driver {
	case StoreDriverSQLite:
		if c.Store.Path == "" {
			return errors.New("store.path must be set when store.driver is sqlite")
		}
	case StoreDriverPostgres:
		if c.Store.DSN == "" {
			return errors.New("store.dsn must be set when store.driver is postgres (or set ASN856_DATABASE_URL)")
		}
	case StoreDriverNone:
	default:
		return fmt.Errorf("store.driver must be one of sqlite, postgres, none (got %q)", c.Store.Driver)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}

func ensureIdentifier(values map[string]string) error {
	for key, value := range values {
		if value == "" {
			return fmt.Errorf("%s must be set", key)
		}
		if len(value) > maxInterchangeIdentifierSize {
			return fmt.Errorf("%s must be at most %d characters", key, maxInterchangeIdentifierSize)
		}
		if strings.ContainsAny(value, "*~") {
			return fmt.Errorf("%s must not contain X12 delimiters", key)
		}
	}
	return nil
}
