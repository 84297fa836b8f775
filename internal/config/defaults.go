package config

const (
	defaultConfigPath            = "~/.config/asn856/config.toml"
	defaultOutputDir             = "~/asn856/outbound"
	defaultStateDir              = "~/.local/share/asn856"
	defaultPartnerID             = "HENRYSCHEIN"
	defaultSenderQualifier       = "01"
	defaultSenderID              = "002418234T"
	defaultReceiverQualifier     = "01"
	defaultReceiverID            = "012430880"
	defaultUsageIndicator        = "P"
	defaultNationalDrugCode      = "101419"
	defaultShipFromName          = "Busse Hospital Disposables"
	defaultShipFromAddress       = "75 Arkay Drive"
	defaultShipFromCity          = "Hauppauge"
	defaultShipFromState         = "NY"
	defaultShipFromZip           = "11788"
	defaultLotLookupBaseURL      = "https://lots.bhd-ny.com/"
	defaultLotLookupTimeout      = 10
	defaultLotLookupConcurrency  = 1
	defaultStoreDriver           = StoreDriverSQLite
	defaultStoreFileName         = "documents.db"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	maxLotLookupConcurrency      = 32
	maxInterchangeIdentifierSize = 15
)

// Store driver names accepted by store.driver.
const (
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverNone     = "none"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
		},
		Partner: Partner{
			ID:                defaultPartnerID,
			SenderQualifier:   defaultSenderQualifier,
			SenderID:          defaultSenderID,
			ReceiverQualifier: defaultReceiverQualifier,
			ReceiverID:        defaultReceiverID,
			UsageIndicator:    defaultUsageIndicator,
			NationalDrugCode:  defaultNationalDrugCode,
		},
		ShipFrom: ShipFrom{
			Name:    defaultShipFromName,
			Address: defaultShipFromAddress,
			City:    defaultShipFromCity,
			State:   defaultShipFromState,
			Zip:     defaultShipFromZip,
		},
		LotLookup: LotLookup{
			Enabled:        true,
			BaseURL:        defaultLotLookupBaseURL,
			TimeoutSeconds: defaultLotLookupTimeout,
			Concurrency:    defaultLotLookupConcurrency,
		},
		Store: Store{
			Driver: defaultStoreDriver,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
