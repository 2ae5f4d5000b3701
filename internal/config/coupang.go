package config

import "time"

type Coupang struct {
	BaseURL      string `env:"COUPANG_BASE_URL" envDefault:"https://api-gateway.coupang.com"`
	AccessKey    string `env:"COUPANG_ACCESS_KEY,required"`
	SecretKey    string `env:"COUPANG_SECRET_KEY,required"`
	VendorID     string `env:"COUPANG_VENDOR_ID,required"`
	VendorUserID string `env:"COUPANG_VENDOR_USER_ID"`

	CallTimeout      time.Duration `env:"COUPANG_CALL_TIMEOUT" envDefault:"10s"`
	HeadCheckTimeout time.Duration `env:"COUPANG_HEAD_CHECK_TIMEOUT" envDefault:"3s"`

	// Seller account data stamped onto every submission payload.
	ReturnCenterCode          string `env:"COUPANG_RETURN_CENTER_CODE,required"`
	ReturnChargeName          string `env:"COUPANG_RETURN_CHARGE_NAME,required"`
	ReturnZipCode             string `env:"COUPANG_RETURN_ZIP_CODE,required"`
	ReturnAddress             string `env:"COUPANG_RETURN_ADDRESS,required"`
	ReturnAddressDetail       string `env:"COUPANG_RETURN_ADDRESS_DETAIL"`
	CompanyContactNumber      string `env:"COUPANG_COMPANY_CONTACT_NUMBER,required"`
	OutboundShippingPlaceCode int64  `env:"COUPANG_OUTBOUND_SHIPPING_PLACE_CODE,required"`
	DeliveryCompanyCode       string `env:"COUPANG_DELIVERY_COMPANY_CODE" envDefault:"KDEXP"`
}

// EffectiveVendorUserID falls back to the vendor ID when no dedicated
// vendor user is configured.
func (c Coupang) EffectiveVendorUserID() string {
	if c.VendorUserID != "" {
		return c.VendorUserID
	}
	return c.VendorID
}
