package poizon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbscan/internal/catalog"
	"arbscan/internal/config"
)

func testClient(t *testing.T) (*Client, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		PoizonBaseURL:  srv.URL,
		PoizonToken:    "tok",
		PoizonCookie:   "sid=1",
		MatchThreshold: 0.8,
	}
	return NewClient(cfg, zerolog.Nop()), mux
}

func TestGetProductInfoFullFlow(t *testing.T) {
	c, mux := testClient(t)

	mux.HandleFunc(searchPath, func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("sign"))
		assert.Equal(t, "tok", r.Header.Get("dutoken"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code": 200,
			"data": map[string]any{"merchantSpuDtoList": []map[string]any{
				{"globalSpuId": 555, "articleNumber": "DV1748-601", "title": "Air Force 1 '07"},
				{"globalSpuId": 556, "articleNumber": "CW2288-111", "title": "다른 신발"},
			}},
		})
	})
	mux.HandleFunc(saleNowPath, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"articleNumber": "DV1748-601",
				"logoUrl":       "https://img.example.com/1.jpg",
				"skuInfos": []map[string]any{{
					"skuId":        101,
					"productName":  "Air Force 1 '07",
					"propertyDesc": "블랙*#*265",
					"salesVolumeGroups": []map[string]any{{
						"buttonCode": 0,
						"salesVolumeInfos": []map[string]any{
							{"areaId": areaKRLeak, "price": map[string]any{"money": map[string]any{"amount": 150000}}},
							{"areaId": areaCNLeak, "price": map[string]any{"money": map[string]any{"amount": 140000}}},
						},
					}},
				}},
			},
		})
	})
	mux.HandleFunc(biddingPath, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{
				"skuInventoryInfoList": []map[string]any{{
					"skuId": 101,
					"skuPropAllSpecification": []map[string]any{
						{"sizeKey": "KR", "skuProp": "KR 265"},
						{"sizeKey": "EU", "skuProp": "EU 42"},
					},
					"regionSalePvInfoList": []map[string]any{{"name": "색상", "value": "블랙"}},
				}},
			}},
		})
	})
	mux.HandleFunc(analyticsPath, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"historyTradeRecord": map[string]any{"tradeRecordDTO": map[string]any{
				"tradeRecords": []map[string]any{{"time": "방금"}},
			}}},
		})
	})

	info, err := c.GetProductInfo(context.Background(), "DV1748-601")
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, "DV1748-601", info.ModelNo)
	assert.Equal(t, "Air Force 1 '07", info.Title)
	require.Len(t, info.Options, 1)
	assert.Equal(t, "265", info.Options[0].Size)
	assert.Equal(t, "42", info.Options[0].EUSize)
	assert.Equal(t, "블랙", info.Options[0].Color)
	assert.Equal(t, 140000, info.Options[0].Price)
	assert.Equal(t, catalog.InStock, info.Options[0].Stock)

	require.NotNil(t, info.Sales)
	assert.Equal(t, 2000.0, info.Sales.VelocityScore)
}

func TestGetProductInfoNoSpuMatch(t *testing.T) {
	c, mux := testClient(t)
	mux.HandleFunc(searchPath, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code": 200,
			"data": map[string]any{"merchantSpuDtoList": []map[string]any{}},
		})
	})

	info, err := c.GetProductInfo(context.Background(), "DV1748-601")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestSearchErrorCode(t *testing.T) {
	c, mux := testClient(t)
	mux.HandleFunc(searchPath, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 401, "msg": "login required"})
	})

	_, err := c.search(context.Background(), "DV1748-601")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestUpdateCredentials(t *testing.T) {
	c := &Client{token: "old", cookie: "old"}
	c.UpdateCredentials("new", "")
	assert.Equal(t, "new", c.token)
	assert.Equal(t, "old", c.cookie)
}
