package config

// PaymentConfig selects the gateway used for card handoffs. Transfer and
// cash bookings never touch a gateway, so "none" is a valid provider.
type PaymentConfig struct {
	Provider string          `yaml:"provider"` // stripe, razorpay, none
	Stripe   *StripeConfig   `yaml:"stripe"`
	Razorpay *RazorpayConfig `yaml:"razorpay"`
	Currency string          `yaml:"currency"`
}

type StripeConfig struct {
	PublishableKey string `yaml:"publishable_key"`
	SecretKey      string `yaml:"secret_key"`
}

type RazorpayConfig struct {
	KeyID     string `yaml:"key_id"`
	KeySecret string `yaml:"key_secret"`
}

func loadPaymentConfig() *PaymentConfig {
	return &PaymentConfig{
		Provider: getEnv("PAYMENT_PROVIDER", "none"),
		Stripe: &StripeConfig{
			PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
		},
		Razorpay: &RazorpayConfig{
			KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		},
		Currency: getEnv("PAYMENT_CURRENCY", "EUR"),
	}
}
