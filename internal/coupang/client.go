package coupang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/openclaw/lister/internal/config"
	"github.com/openclaw/lister/internal/model"
)

const codeSuccess = "SUCCESS"

// Marketplace status names as reported by the seller-products API.
const (
	StatusNameApproved = "승인완료"
	StatusNameDenied   = "승인반려"
)

const (
	pathPredictCategory = "/v2/providers/openapi/apis/api/v1/categorization/predict"
	pathCategoryMeta    = "/v2/providers/seller_api/apis/api/v1/marketplace/meta/category-related-metas/display-category-codes/%d"
	pathSellerProducts  = "/v2/providers/seller_api/apis/api/v1/marketplace/seller-products"
)

// Client is the signed HTTP client for the marketplace open API. Every call
// carries an explicit timeout; a timeout surfaces as an ordinary transport
// error, no special casing.
type Client struct {
	cfg  config.Coupang
	http *http.Client

	// now is swappable for signing tests.
	now func() time.Time
}

func NewClient(cfg config.Coupang) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{},
		now:  time.Now,
	}
}

// PredictCategory asks the marketplace to predict a display category for a
// product name. Names are truncated to 200 runes, the API's input ceiling.
func (c *Client) PredictCategory(ctx context.Context, name string) (Category, error) {
	if runes := []rune(name); len(runes) > 200 {
		name = string(runes[:200])
	}

	var resp struct {
		Code string `json:"code"`
		Data struct {
			PredictedCategoryID   json.Number `json:"predictedCategoryId"`
			PredictedCategoryName string      `json:"predictedCategoryName"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, pathPredictCategory, map[string]string{"productName": name}, &resp); err != nil {
		return Category{}, fmt.Errorf("predict category: %w", err)
	}

	id, err := resp.Data.PredictedCategoryID.Int64()
	if err != nil || id == 0 {
		return Category{}, fmt.Errorf("predict category: no category for %q (code %s)", name, resp.Code)
	}

	return Category{ID: id, Name: resp.Data.PredictedCategoryName}, nil
}

// CategoryMeta fetches the attribute schema and notice categories of one
// display category.
func (c *Client) CategoryMeta(ctx context.Context, categoryID int64) (CategoryMeta, error) {
	var resp struct {
		Code string `json:"code"`
		Data struct {
			Attributes []struct {
				AttributeTypeName string `json:"attributeTypeName"`
				DataType          string `json:"dataType"`
				Required          string `json:"required"`
				GroupNumber       string `json:"groupNumber"`
				BasicUnit         string `json:"basicUnit"`
				AttributeValues   []struct {
					AttributeValueName string `json:"attributeValueName"`
				} `json:"attributeValues"`
			} `json:"attributes"`
			NoticeCategories []struct {
				NoticeCategoryName        string `json:"noticeCategoryName"`
				NoticeCategoryDetailNames []struct {
					NoticeCategoryDetailName string `json:"noticeCategoryDetailName"`
					Required                 string `json:"required"`
				} `json:"noticeCategoryDetailNames"`
			} `json:"noticeCategories"`
		} `json:"data"`
	}
	path := fmt.Sprintf(pathCategoryMeta, categoryID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return CategoryMeta{}, fmt.Errorf("category meta: %w", err)
	}
	if resp.Code != codeSuccess {
		return CategoryMeta{}, fmt.Errorf("category meta: unexpected code %s", resp.Code)
	}

	meta := CategoryMeta{
		Schema: model.CategorySchema{CategoryID: categoryID},
	}
	for _, a := range resp.Data.Attributes {
		def := model.AttributeDefinition{
			TypeName:    a.AttributeTypeName,
			DataType:    model.AttributeDataType(a.DataType),
			Required:    a.Required,
			GroupNumber: a.GroupNumber,
			BasicUnit:   a.BasicUnit,
		}
		for _, v := range a.AttributeValues {
			if v.AttributeValueName != "" {
				def.AllowedValues = append(def.AllowedValues, v.AttributeValueName)
			}
		}
		meta.Schema.Attributes = append(meta.Schema.Attributes, def)
	}
	for _, nc := range resp.Data.NoticeCategories {
		cat := NoticeCategory{Name: nc.NoticeCategoryName}
		for _, d := range nc.NoticeCategoryDetailNames {
			cat.Details = append(cat.Details, NoticeDetail{
				Name:     d.NoticeCategoryDetailName,
				Required: d.Required,
			})
		}
		meta.NoticeCategories = append(meta.NoticeCategories, cat)
	}

	return meta, nil
}

// Submit registers a seller product. A non-success response code is returned
// inside the result, not as an error; errors are reserved for transport
// failures and unparseable responses.
func (c *Client) Submit(ctx context.Context, payload Payload) (SubmitResult, error) {
	var resp struct {
		Code    string      `json:"code"`
		Message string      `json:"message"`
		Data    json.Number `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, pathSellerProducts, payload, &resp); err != nil {
		return SubmitResult{}, fmt.Errorf("submit seller product: %w", err)
	}

	result := SubmitResult{Code: resp.Code, Message: resp.Message}
	if resp.Code == codeSuccess {
		id, err := resp.Data.Int64()
		if err != nil {
			return result, fmt.Errorf("submit seller product: parse product id %q: %w", resp.Data, err)
		}
		result.Success = true
		result.ProductID = id
	}

	return result, nil
}

// ProductStatus returns the marketplace status name of a registered product.
func (c *Client) ProductStatus(ctx context.Context, productID int64) (string, error) {
	var resp struct {
		Data struct {
			StatusName string `json:"statusName"`
		} `json:"data"`
	}
	path := pathSellerProducts + "/" + strconv.FormatInt(productID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", fmt.Errorf("product status: %w", err)
	}
	if resp.Data.StatusName == "" {
		return "UNKNOWN", nil
	}
	return resp.Data.StatusName, nil
}

// DenialReasons collects every rejection reason the marketplace reports for
// a product: per-item reject reasons plus the product-level reason/comment.
func (c *Client) DenialReasons(ctx context.Context, productID int64) ([]string, error) {
	var resp struct {
		Data struct {
			RejectReason string `json:"rejectReason"`
			Comment      string `json:"comment"`
			Items        []struct {
				StatusName   string `json:"statusName"`
				RejectReason string `json:"rejectReason"`
			} `json:"items"`
		} `json:"data"`
	}
	path := pathSellerProducts + "/" + strconv.FormatInt(productID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("denial reasons: %w", err)
	}

	var reasons []string
	for _, it := range resp.Data.Items {
		if it.StatusName == StatusNameDenied && it.RejectReason != "" {
			reasons = append(reasons, it.RejectReason)
		}
	}
	if resp.Data.RejectReason != "" {
		reasons = append(reasons, resp.Data.RejectReason)
	}
	if resp.Data.Comment != "" {
		reasons = append(reasons, resp.Data.Comment)
	}

	return reasons, nil
}

// Reachable issues a HEAD request against an image URL. Any transport error
// or non-2xx status counts as unreachable.
func (c *Client) Reachable(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HeadCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	var reqBody *bytes.Reader
	if body != nil && method != http.MethodGet {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	sig := sign(c.cfg.AccessKey, c.cfg.SecretKey, method, path, "", c.now())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", sig.authorization)
	req.Header.Set("X-Coupang-Date", sig.datetime)
	req.Header.Set("X-Requested-By", c.cfg.VendorID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response (http %d): %w", method, path, resp.StatusCode, err)
	}

	return nil
}
