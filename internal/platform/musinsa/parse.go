package musinsa

import (
	"encoding/json"
	"strconv"
	"strings"

	"arbscan/internal/catalog"
)

// Typed views of the payloads we consume. Fields the comparison never
// needs are omitted on purpose; unknown fields are ignored.

type searchResponse struct {
	Data struct {
		List []searchItem `json:"list"`
	} `json:"data"`
}

type searchItem struct {
	GoodsNo   json.Number `json:"goodsNo"`
	GoodsName string      `json:"goodsName"`
}

type optionsResponse struct {
	Data struct {
		Basic       []basicOption `json:"basic"`
		OptionItems []optionItem  `json:"optionItems"`
	} `json:"data"`
}

type basicOption struct {
	Name         string        `json:"name"`
	OptionValues []optionValue `json:"optionValues"`
}

type optionValue struct {
	No   int64  `json:"no"`
	Name string `json:"name"`
}

type optionItem struct {
	No             int64   `json:"no"`
	Price          int     `json:"price"` // surcharge on top of the base price
	OptionValueNos []int64 `json:"optionValueNos"`
}

type inventoryResponse struct {
	Data []inventoryItem `json:"data"`
}

type inventoryItem struct {
	ProductVariantID int64 `json:"productVariantId"`
	OutOfStock       bool  `json:"outOfStock"`
	RemainQuantity   *int  `json:"remainQuantity"`
}

// baseInfo is the slice of the product page __NEXT_DATA__ blob we need.
type baseInfo struct {
	Title    string
	StyleNo  string
	ImageURL string
	Price    int
}

type nextData struct {
	Props struct {
		PageProps struct {
			Meta struct {
				Data struct {
					GoodsNm     string `json:"goodsNm"`
					StyleNo     string `json:"styleNo"`
					GoodsImages []struct {
						ImageURL string `json:"imageUrl"`
					} `json:"goodsImages"`
					GoodsPrice *struct {
						CouponPrice int `json:"couponPrice"`
						SalePrice   int `json:"salePrice"`
						NormalPrice int `json:"normalPrice"`
					} `json:"goodsPrice"`
				} `json:"data"`
			} `json:"meta"`
		} `json:"pageProps"`
	} `json:"props"`
}

const (
	nextDataStart = `<script id="__NEXT_DATA__" type="application/json">`
	nextDataEnd   = `</script>`
)

// parseBaseInfo extracts the embedded __NEXT_DATA__ JSON from the
// product page HTML. Returns nil on any shape mismatch; the page layout
// changes without notice.
func parseBaseInfo(html string) *baseInfo {
	start := strings.Index(html, nextDataStart)
	if start < 0 {
		return nil
	}
	start += len(nextDataStart)
	end := strings.Index(html[start:], nextDataEnd)
	if end < 0 {
		return nil
	}

	var nd nextData
	if err := json.Unmarshal([]byte(html[start:start+end]), &nd); err != nil {
		return nil
	}
	meta := nd.Props.PageProps.Meta.Data
	if meta.GoodsNm == "" {
		return nil
	}

	info := &baseInfo{
		Title:   meta.GoodsNm,
		StyleNo: meta.StyleNo,
	}
	if len(meta.GoodsImages) > 0 && meta.GoodsImages[0].ImageURL != "" {
		info.ImageURL = "https:" + meta.GoodsImages[0].ImageURL
	}
	if p := meta.GoodsPrice; p != nil {
		// coupon price beats sale price beats normal price
		switch {
		case p.CouponPrice > 0:
			info.Price = p.CouponPrice
		case p.SalePrice > 0:
			info.Price = p.SalePrice
		default:
			info.Price = p.NormalPrice
		}
	}
	return info
}

// extractModelNo pulls a model number off a product name like
// "클럽 프렌치 테리 크루 M - 블랙:화이트 / FN3889-010".
func extractModelNo(goodsName string) string {
	if !strings.Contains(goodsName, "/") {
		return ""
	}
	parts := strings.Split(goodsName, "/")
	candidate := strings.TrimSpace(parts[len(parts)-1])
	if len(candidate) > 3 {
		return candidate
	}
	return ""
}

// buildOptions joins the option matrix with inventory. Option values
// are classified as size or color by their axis name; anything else
// rides along with the size. Missing inventory means in stock.
func buildOptions(base *baseInfo, opts *optionsResponse, inv *inventoryResponse) []catalog.Option {
	invByVariant := map[int64]inventoryItem{}
	if inv != nil {
		for _, item := range inv.Data {
			invByVariant[item.ProductVariantID] = item
		}
	}

	var out []catalog.Option
	for _, item := range opts.Data.OptionItems {
		valueSet := map[int64]bool{}
		for _, no := range item.OptionValueNos {
			valueSet[no] = true
		}

		var sizeParts, colorParts []string
		for _, basic := range opts.Data.Basic {
			for _, v := range basic.OptionValues {
				if !valueSet[v.No] {
					continue
				}
				switch {
				case strings.Contains(basic.Name, "사이즈"):
					sizeParts = append(sizeParts, v.Name)
				case strings.Contains(basic.Name, "색상"), strings.Contains(basic.Name, "컬러"):
					colorParts = append(colorParts, v.Name)
				default:
					sizeParts = append(sizeParts, v.Name)
				}
			}
		}

		size := "ONE SIZE"
		if len(sizeParts) > 0 {
			size = strings.Join(sizeParts, " / ")
		}
		color := "ONE COLOR"
		if len(colorParts) > 0 {
			color = strings.Join(colorParts, " / ")
		}

		stock := catalog.InStock
		if rec, ok := invByVariant[item.No]; ok && rec.OutOfStock {
			stock = catalog.OutOfStock
		}

		out = append(out, catalog.Option{
			SkuID:    strconv.FormatInt(item.No, 10),
			Size:     size,
			Color:    color,
			Price:    base.Price + item.Price,
			Stock:    stock,
			ImageURL: base.ImageURL,
		})
	}
	return out
}
