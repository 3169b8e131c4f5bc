package poizon

import (
	"encoding/json"
	"regexp"
	"strings"

	"arbscan/internal/catalog"
)

type searchResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		MerchantSpuDtoList []spuItem `json:"merchantSpuDtoList"`
	} `json:"data"`
}

type spuItem struct {
	GlobalSpuID   int64  `json:"globalSpuId"`
	ArticleNumber string `json:"articleNumber"`
	Title         string `json:"title"`
	LogoURL       string `json:"logoUrl"`
}

type saleNowResponse struct {
	Data struct {
		ArticleNumber string    `json:"articleNumber"`
		LogoURL       string    `json:"logoUrl"`
		SkuInfos      []skuInfo `json:"skuInfos"`
	} `json:"data"`
}

type skuInfo struct {
	SkuID             json.Number  `json:"skuId"`
	ProductName       string       `json:"productName"`
	ProductType       string       `json:"productType"`
	PropertyDesc      string       `json:"propertyDesc"`
	SalesVolumeGroups []salesGroup `json:"salesVolumeGroups"`
}

type salesGroup struct {
	ButtonCode       int         `json:"buttonCode"`
	SalesVolumeInfos []salesInfo `json:"salesVolumeInfos"`
}

type salesInfo struct {
	AreaID string `json:"areaId"`
	Price  struct {
		Money struct {
			Amount int `json:"amount"`
		} `json:"money"`
	} `json:"price"`
}

type biddingResponse struct {
	Data []biddingProduct `json:"data"`
}

type biddingProduct struct {
	SkuInventoryInfoList []skuInventory `json:"skuInventoryInfoList"`
}

type skuInventory struct {
	SkuID       json.Number `json:"skuId"`
	GlobalSkuID json.Number `json:"globalSkuId"`
	DwSkuID     json.Number `json:"dwSkuId"`
	SkuPic      string      `json:"skuPic"`
	LogoURL     string      `json:"logoUrl"`
	SpuPropNew  string      `json:"spuPropNew"`
	SpuProp     string      `json:"spuProp"`
	Specs       []skuSpec   `json:"skuPropAllSpecification"`
	RegionInfo  []regionPV  `json:"regionSalePvInfoList"`
}

type skuSpec struct {
	SizeKey string `json:"sizeKey"`
	SkuProp string `json:"skuProp"`
}

type regionPV struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type analyticsResponse struct {
	Data struct {
		HistoryTradeRecord struct {
			TradeRecordDTO struct {
				TradeRecords []tradeRecord `json:"tradeRecords"`
			} `json:"tradeRecordDTO"`
		} `json:"historyTradeRecord"`
	} `json:"data"`
}

type tradeRecord struct {
	Time string `json:"time"`
}

// Area ids carrying the two leak prices a seller can undercut.
const (
	areaKRLeak = "SALE_LOCAL_POIZON_LEAK"
	areaCNLeak = "CN_LEAK"
)

// sizePrice is one live offer from the sale-now endpoint.
type sizePrice struct {
	SkuID       string
	Size        string
	Color       string
	TargetPrice int
	KRPrice     int
	CNPrice     int
	CheaperIn   string
}

type priceSummary struct {
	Title         string
	ArticleNumber string
	ImageURL      string
	Sizes         []sizePrice
}

// extractPriceInfo flattens the sale-now payload into per-sku offers.
// The target price is the cheaper of the KR and CN leak prices; skus
// quoting neither are dropped.
func extractPriceInfo(resp *saleNowResponse) *priceSummary {
	if resp == nil {
		return nil
	}
	data := resp.Data
	if data.ArticleNumber == "" && len(data.SkuInfos) == 0 {
		return nil
	}

	out := &priceSummary{
		ArticleNumber: data.ArticleNumber,
		ImageURL:      data.LogoURL,
	}
	if len(data.SkuInfos) > 0 {
		out.Title = data.SkuInfos[0].ProductName
	}

	for _, sku := range data.SkuInfos {
		if sku.ProductType == "SPU" {
			continue
		}

		color, size := splitPropertyDesc(sku.PropertyDesc)

		var kr, cn int
		for _, group := range sku.SalesVolumeGroups {
			if group.ButtonCode != 0 {
				continue
			}
			for _, info := range group.SalesVolumeInfos {
				amount := info.Price.Money.Amount
				if amount == 0 {
					continue
				}
				switch info.AreaID {
				case areaKRLeak:
					kr = amount
				case areaCNLeak:
					cn = amount
				}
			}
		}
		if kr == 0 && cn == 0 {
			continue
		}

		sp := sizePrice{
			SkuID:   sku.SkuID.String(),
			Size:    size,
			Color:   color,
			KRPrice: kr,
			CNPrice: cn,
		}
		switch {
		case cn > 0 && (kr == 0 || cn < kr):
			sp.TargetPrice = cn
			sp.CheaperIn = "CN"
		default:
			sp.TargetPrice = kr
			sp.CheaperIn = "KR"
		}
		out.Sizes = append(out.Sizes, sp)
	}
	return out
}

// splitPropertyDesc splits "블랙*#*265" into its color and size parts;
// without the separator the whole string is the size.
func splitPropertyDesc(desc string) (color, size string) {
	if i := strings.Index(desc, "*#*"); i >= 0 {
		return desc[:i], desc[i+len("*#*"):]
	}
	return "", desc
}

// skuSize is the size table entry for one sku, with every id the price
// list might be keyed by.
type skuSize struct {
	IDs      []string // skuId, globalSkuId, dwSkuId, in match priority order
	SizeKR   string
	SizeEU   string
	SizeUS   string
	Color    string
	RawProp  string
	ImageURL string
}

var numberRun = regexp.MustCompile(`[\d.]+`)

// extractSkuSizes reads the bidding payload's per-sku size
// specifications. CHN sizes count as KR millimeters; generic
// SIZE/Numeric Size axes fill whatever is still blank.
func extractSkuSizes(resp *biddingResponse) []skuSize {
	if resp == nil || len(resp.Data) == 0 {
		return nil
	}

	var out []skuSize
	for _, sku := range resp.Data[0].SkuInventoryInfoList {
		rawProp := sku.SpuPropNew
		if rawProp == "" {
			rawProp = sku.SpuProp
		}
		fallback := lastSpaceToken(rawProp)

		img := sku.SkuPic
		if img == "" {
			img = sku.LogoURL
		}

		s := skuSize{
			IDs:      []string{sku.SkuID.String(), sku.GlobalSkuID.String(), sku.DwSkuID.String()},
			RawProp:  rawProp,
			ImageURL: img,
		}

		for _, spec := range sku.Specs {
			val := lastSpaceToken(spec.SkuProp)
			switch spec.SizeKey {
			case "KR":
				s.SizeKR = val
			case "CHN":
				// e.g. "화이트 CHN 220": the trailing number is the size
				if nums := numberRun.FindAllString(spec.SkuProp, -1); len(nums) > 0 {
					s.SizeKR = nums[len(nums)-1]
				}
			case "EU":
				s.SizeEU = val
			case "US Men":
				s.SizeUS = val
			case "SIZE", "Numeric Size":
				if s.SizeKR == "" {
					s.SizeKR = val
				}
				if s.SizeEU == "" {
					s.SizeEU = val
				}
			}
		}

		for _, pv := range sku.RegionInfo {
			if strings.Contains(pv.Name, "색상") || strings.Contains(pv.Name, "Color") {
				s.Color = pv.Value
			}
			if s.SizeKR == "" && (strings.Contains(pv.Name, "사이즈") || strings.Contains(pv.Name, "Size")) {
				s.SizeKR = pv.Value
				s.SizeEU = pv.Value
			}
		}

		if s.SizeKR == "" {
			s.SizeKR = fallback
		}
		if s.SizeEU == "" {
			s.SizeEU = fallback
		}
		out = append(out, s)
	}
	return out
}

func lastSpaceToken(s string) string {
	if i := strings.LastIndex(s, " "); i >= 0 {
		return s[i+1:]
	}
	return s
}

var priceTokenSplit = regexp.MustCompile(`[^a-zA-Z0-9.가-힣]+`)

// assembleOptions joins live offers with the size table. An offer is
// matched by sku id first; failing that, by the sku's color appearing
// in the offer's "color size" string and one of its size candidates
// appearing as a token. Without a size table the offers stand alone.
func assembleOptions(prices *priceSummary, skus []skuSize) []catalog.Option {
	if prices == nil {
		return nil
	}
	if len(skus) == 0 {
		out := make([]catalog.Option, 0, len(prices.Sizes))
		for _, sp := range prices.Sizes {
			out = append(out, catalog.Option{
				SkuID:    sp.SkuID,
				Size:     sp.Size,
				Color:    sp.Color,
				Price:    sp.TargetPrice,
				Stock:    catalog.InStock,
				ImageURL: prices.ImageURL,
			})
		}
		return out
	}

	priceByID := map[string]sizePrice{}
	for _, sp := range prices.Sizes {
		if sp.SkuID != "" {
			priceByID[sp.SkuID] = sp
		}
	}

	var out []catalog.Option
	for _, sku := range skus {
		var matched *sizePrice
		for _, id := range sku.IDs {
			if id == "" {
				continue
			}
			if sp, ok := priceByID[id]; ok {
				matched = &sp
				break
			}
		}
		if matched == nil {
			matched = matchPriceByProps(prices.Sizes, sku)
		}

		price := 0
		skuID := firstNonEmpty(sku.IDs)
		if matched != nil {
			price = matched.TargetPrice
			if matched.SkuID != "" {
				skuID = matched.SkuID
			}
		}

		img := sku.ImageURL
		if img == "" {
			img = prices.ImageURL
		}
		out = append(out, catalog.Option{
			SkuID:    skuID,
			Size:     sku.SizeKR,
			EUSize:   sku.SizeEU,
			Color:    sku.Color,
			Price:    price,
			Stock:    catalog.InStock,
			ImageURL: img,
		})
	}
	return out
}

func matchPriceByProps(prices []sizePrice, sku skuSize) *sizePrice {
	candidates := make([]string, 0, 4)
	for _, cand := range []string{sku.SizeKR, sku.SizeEU, sku.SizeUS, lastSpaceToken(sku.RawProp)} {
		cand = strings.TrimSpace(cand)
		if cand != "" {
			candidates = append(candidates, cand)
		}
	}
	color := strings.TrimSpace(sku.Color)

	for i := range prices {
		full := strings.TrimSpace(prices[i].Color + " " + prices[i].Size)
		if color != "" && !strings.Contains(full, color) {
			continue
		}
		tokens := priceTokenSplit.Split(full, -1)
		for _, cand := range candidates {
			for _, tok := range tokens {
				if tok == cand {
					return &prices[i]
				}
			}
		}
	}
	return nil
}

func firstNonEmpty(ss []string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
