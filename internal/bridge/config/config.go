package config

type File struct {
	// Seed drives valuation bonuses. A crypto-random seed is used when omitted.
	Seed     *int64         `yaml:"seed"`
	Currency CurrencyConfig `yaml:"currency"`
	Rules    []RuleConfig   `yaml:"rules"`
	Shop     ShopConfig     `yaml:"shop"`
}

type CurrencyConfig struct {
	Symbol string `yaml:"symbol"`
	Scale  *int32 `yaml:"scale"`
}

type RuleConfig struct {
	Name     string   `yaml:"name"`
	Events   []string `yaml:"events"`
	Species  string   `yaml:"species"`
	Shiny    *bool    `yaml:"shiny"`
	Rarity   string   `yaml:"rarity"`
	MinLevel int      `yaml:"min_level"`
	MaxLevel int      `yaml:"max_level"`
	Amount   string   `yaml:"amount"`
	PerLevel string   `yaml:"per_level"`
	BonusMax string   `yaml:"bonus_max"`
}

type ShopConfig struct {
	Title    string        `yaml:"title"`
	PageSize int           `yaml:"page_size"`
	Offers   []OfferConfig `yaml:"offers"`
}

type OfferConfig struct {
	ID       string          `yaml:"id"`
	Display  string          `yaml:"display"`
	Icon     string          `yaml:"icon"`
	Lore     []string        `yaml:"lore"`
	Kind     string          `yaml:"kind"`
	Price    string          `yaml:"price"`
	Creature *CreatureConfig `yaml:"creature"`
	Stock    StockConfig     `yaml:"stock"`
}

type CreatureConfig struct {
	Species string `yaml:"species"`
	Level   int    `yaml:"level"`
	Rarity  string `yaml:"rarity"`
	Shiny   bool   `yaml:"shiny"`
}

type StockConfig struct {
	Policy string `yaml:"policy"`
	Limit  int    `yaml:"limit"`
}
