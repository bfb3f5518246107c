package domain

// RedisSettings stores connection details for the hosted key-value store.
type RedisSettings struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db"`
}

// PublishSettings stores the business-profile publishing target.
type PublishSettings struct {
	BaseURL    string `json:"base_url,omitempty"`
	Token      string `json:"token,omitempty"`
	LocationID string `json:"location_id,omitempty"`
}

// Restaurant stores one restaurant's local settings.
type Restaurant struct {
	Name       string          `json:"name"`
	IsDefault  bool            `json:"is_default"`
	Timezone   string          `json:"timezone,omitempty"`
	Locale     string          `json:"locale,omitempty"`
	DataDir    string          `json:"data_dir,omitempty"`
	Redis      RedisSettings   `json:"redis,omitempty"`
	Listen     string          `json:"listen,omitempty"`
	AdminToken string          `json:"admin_token,omitempty"`
	Publish    PublishSettings `json:"publish,omitempty"`
}

// Config stores all locally configured restaurants.
type Config struct {
	Restaurants []Restaurant `json:"restaurants"`
}
