package vnpay

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the gateway settings. Values come from config/vnpay.yaml when
// present and can always be overridden via VNPAY_* environment variables
// (e.g. VNPAY_SECRET_KEY).
type Config struct {
	PayURL    string        `mapstructure:"pay_url"`
	ReturnURL string        `mapstructure:"return_url"`
	TmnCode   string        `mapstructure:"tmn_code"`
	SecretKey string        `mapstructure:"secret_key"`
	APIURL    string        `mapstructure:"api_url"`
	Timeout   time.Duration `mapstructure:"timeout"`

	// LegacyOrderThreshold drives the fallback strategy-selection rule for
	// orders that predate the payment_method column. Orders with a numeric id
	// at or below the threshold are assumed to have paid through the gateway.
	// TODO: drop once payment_method is backfilled for historical orders.
	LegacyOrderThreshold int64 `mapstructure:"legacy_order_threshold"`
}

// LoadConfig reads the vnpay config file from the given directory, falling
// back to environment variables only when the file is absent.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigName("vnpay")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("vnpay")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("pay_url", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html")
	v.SetDefault("api_url", "https://sandbox.vnpayment.vn/merchant_webapi/api/transaction")
	v.SetDefault("timeout", 15*time.Second)
	v.SetDefault("legacy_order_threshold", 10000)
	// Registering empty defaults makes env-only overrides visible to Unmarshal.
	v.SetDefault("tmn_code", "")
	v.SetDefault("secret_key", "")
	v.SetDefault("return_url", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read vnpay config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal vnpay config: %w", err)
	}
	if cfg.TmnCode == "" || cfg.SecretKey == "" {
		return Config{}, fmt.Errorf("vnpay config: tmn_code and secret_key are required")
	}
	return cfg, nil
}
