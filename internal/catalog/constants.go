package catalog

// bannerShareUnit converts probability units to basis points.
const bannerShareUnit = 100

// Schema used to validate JSON catalogs.
const RewardsSchemaPath = "configs/schemas/rewards.schema.json"

// Error messages
const (
	ErrMsgNoPools             = "catalog defines no gacha pools or wheels"
	ErrMsgDuplicatePool       = "duplicate gacha pool"
	ErrMsgDuplicateWheel      = "duplicate wheel"
	ErrMsgDuplicateBanner     = "duplicate banner"
	ErrMsgDuplicateItem       = "duplicate item"
	ErrMsgUnknownFeaturedItem = "featured item not in pool"
	ErrMsgJackpotInGacha      = "jackpot tier is only allowed on wheels"
	ErrMsgJackpotItemMissing  = "jackpot tier has weight but no jackpot item"
	ErrMsgTierWithoutItems    = "tier has weight but no enabled items"
	ErrMsgSoftPityWithoutHard = "soft pity needs a hard threshold"
	ErrMsgUnsupportedFormat   = "unsupported catalog format"
)

// Log messages
const (
	LogMsgCatalogLoaded = "Reward catalog loaded"
)
