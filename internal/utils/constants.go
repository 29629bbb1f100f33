package utils

import "time"

// Application Constants
const (
	AppName    = "GoRent"
	AppVersion = "1.0.0"

	// Default values
	DefaultLanguage = "it"
	DefaultCurrency = "EUR"
	DefaultTimeZone = "Europe/Rome"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Pricing Constants
	FlatAirportFee      = 20.0 // one-off delivery fee
	PerDayBabySeatFee   = 8.0
	PerDaySnowChainsFee = 5.0
	MinRentalDays       = 1
	MaxRentalDays       = 90

	// Contract archive
	ContractArchiveFolder = "Contratti"
	ContractFileName      = "contratto_firmato.pdf"
	ContractContentType   = "application/pdf"

	// Date keys used by the availability calendar
	DateKeyLayout = "2006-01-02"
	MonthLayout   = "2006-01"

	// File Upload
	MaxSignatureSize = 2 * 1024 * 1024  // 2MB
	MaxDocumentSize  = 10 * 1024 * 1024 // 10MB

	// Authentication
	JWTAccessTokenTTL = 24 * time.Hour

	// Booking flow
	FlowIdleTimeout = 2 * time.Hour
)

// Response status
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Common error messages
const (
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized"
	ErrForbidden        = "forbidden"
	ErrValidationFailed = "validation failed"
)
