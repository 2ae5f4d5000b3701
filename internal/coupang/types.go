// Package coupang is the marketplace-facing client: CEA request signing,
// category prediction, category metadata, product submission, status and
// denial-reason lookups, and the outbound payload shape.
package coupang

import (
	"github.com/openclaw/lister/internal/model"
)

// Category is a predicted display category.
type Category struct {
	ID   int64
	Name string
}

// NoticeDetail is one field of a product notice category.
type NoticeDetail struct {
	Name     string
	Required string
}

// NoticeCategory groups the legally required product notice fields.
type NoticeCategory struct {
	Name    string
	Details []NoticeDetail
}

// CategoryMeta is the category-related metadata: the attribute schema plus
// the notice categories.
type CategoryMeta struct {
	Schema           model.CategorySchema
	NoticeCategories []NoticeCategory
}

// SubmitResult is the marketplace's answer to a product submission.
type SubmitResult struct {
	Success   bool
	ProductID int64
	Code      string
	Message   string
}

// Image is one payload image. ImageType REPRESENTATION marks the primary.
type Image struct {
	ImageOrder int    `json:"imageOrder"`
	ImageType  string `json:"imageType"`
	VendorPath string `json:"vendorPath"`
}

// Notice is one product notice line.
type Notice struct {
	NoticeCategoryName       string `json:"noticeCategoryName"`
	NoticeCategoryDetailName string `json:"noticeCategoryDetailName"`
	Content                  string `json:"content"`
}

type ContentDetail struct {
	Content    string `json:"content"`
	DetailType string `json:"detailType"`
}

type Content struct {
	ContentsType   string          `json:"contentsType"`
	ContentDetails []ContentDetail `json:"contentDetails"`
}

type Certification struct {
	CertificationType string `json:"certificationType"`
	CertificationCode string `json:"certificationCode"`
}

// Item is one sellable line item inside a submission payload.
type Item struct {
	ItemName                  string                      `json:"itemName"`
	OriginalPrice             int64                       `json:"originalPrice"`
	SalePrice                 int64                       `json:"salePrice"`
	MaximumBuyCount           int                         `json:"maximumBuyCount"`
	MaximumBuyForPerson       int                         `json:"maximumBuyForPerson"`
	MaximumBuyForPersonPeriod int                         `json:"maximumBuyForPersonPeriod"`
	OutboundShippingTimeDay   int                         `json:"outboundShippingTimeDay"`
	UnitCount                 int                         `json:"unitCount"`
	MinimumQuantity           int                         `json:"minimumQuantity"`
	AdultOnly                 string                      `json:"adultOnly"`
	TaxType                   string                      `json:"taxType"`
	ParallelImported          string                      `json:"parallelImported"`
	OverseasPurchased         string                      `json:"overseasPurchased"`
	PccNeeded                 bool                        `json:"pccNeeded"`
	Barcode                   string                      `json:"barcode"`
	EmptyBarcode              bool                        `json:"emptyBarcode"`
	EmptyBarcodeReason        string                      `json:"emptyBarcodeReason"`
	Certifications            []Certification             `json:"certifications"`
	SearchTags                []string                    `json:"searchTags,omitempty"`
	Images                    []Image                     `json:"images"`
	Notices                   []Notice                    `json:"notices"`
	Contents                  []Content                   `json:"contents"`
	OfferCondition            string                      `json:"offerCondition"`
	OfferDescription          string                      `json:"offerDescription"`
	Attributes                []model.AttributeAssignment `json:"attributes"`
}

// Payload is the outbound seller-product registration request.
type Payload struct {
	DisplayCategoryCode       int64  `json:"displayCategoryCode"`
	SellerProductName         string `json:"sellerProductName"`
	VendorID                  string `json:"vendorId"`
	SaleStartedAt             string `json:"saleStartedAt"`
	SaleEndedAt               string `json:"saleEndedAt"`
	DisplayProductName        string `json:"displayProductName"`
	Brand                     string `json:"brand"`
	GeneralProductName        string `json:"generalProductName"`
	ProductGroup              string `json:"productGroup"`
	Manufacture               string `json:"manufacture"`
	DeliveryMethod            string `json:"deliveryMethod"`
	DeliveryCompanyCode       string `json:"deliveryCompanyCode"`
	DeliveryChargeType        string `json:"deliveryChargeType"`
	DeliveryCharge            int    `json:"deliveryCharge"`
	FreeShipOverAmount        int    `json:"freeShipOverAmount"`
	DeliveryChargeOnReturn    int    `json:"deliveryChargeOnReturn"`
	ReturnCharge              int    `json:"returnCharge"`
	RemoteAreaDeliverable     string `json:"remoteAreaDeliverable"`
	UnionDeliveryType         string `json:"unionDeliveryType"`
	ReturnCenterCode          string `json:"returnCenterCode"`
	ReturnChargeName          string `json:"returnChargeName"`
	CompanyContactNumber      string `json:"companyContactNumber"`
	ReturnZipCode             string `json:"returnZipCode"`
	ReturnAddress             string `json:"returnAddress"`
	ReturnAddressDetail       string `json:"returnAddressDetail"`
	OutboundShippingPlaceCode int64  `json:"outboundShippingPlaceCode"`
	VendorUserID              string `json:"vendorUserId"`
	Requested                 bool   `json:"requested"`
	Items                     []Item `json:"items"`
}
