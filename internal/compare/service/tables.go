package service

// Static lookup data for size/color canonicalization. Extensible, not a
// full taxonomy: unmapped values fall through unchanged and still join
// when both platforms spell them the same way.

// colorMap maps a canonical color name to the synonym substrings that
// collapse into it (Korean names, vendor abbreviations, romanizations).
// Order of synonyms within a slice matters only for readability; lookup
// is substring containment against the cleaned raw color.
var colorMap = []struct {
	canonical string
	synonyms  []string
}{
	{"black", []string{"blk", "블랙", "검정", "noir", "nero", "coreblack", "black"}},
	{"white", []string{"wht", "화이트", "흰색", "blanc", "white"}},
	{"grey", []string{"gry", "그레이", "회색", "charcoal", "차콜", "darkgrey", "lightgrey", "grey", "gray"}},
	{"navy", []string{"nvy", "네이비", "곤색", "navy"}},
	{"red", []string{"red", "레드", "빨강", "rouge"}},
	{"blue", []string{"blu", "블루", "파랑", "blue"}},
	{"green", []string{"grn", "그린", "초록", "green"}},
	{"yellow", []string{"ylw", "옐로우", "노랑", "yellow"}},
	{"orange", []string{"org", "오렌지", "주황", "orange"}},
	{"purple", []string{"ppl", "퍼플", "보라", "purple"}},
	{"beige", []string{"beg", "베이지", "lbeige", "lightbeige", "beige"}},
	{"cream", []string{"crm", "크림", "cream"}},
	{"ivory", []string{"ivr", "아이보리", "ivory"}},
	{"silver", []string{"slv", "실버", "은색", "silver"}},
	{"gold", []string{"gld", "골드", "금색", "gold"}},
	{"brown", []string{"brn", "브라운", "갈색", "brown"}},
	{"khaki", []string{"khk", "카키", "khaki"}},
	{"pink", []string{"pnk", "핑크", "분홍", "pink"}},
	{"mint", []string{"mnt", "민트", "mint"}},
}

// euToKR converts EU shoe sizes to KR millimeter sizes. Values not in
// the table are passed through rather than interpolated.
var euToKR = map[string]string{
	"35": "220", "35.5": "225",
	"36": "230", "36.5": "235",
	"37": "235", "37.5": "240",
	"38": "240", "38.5": "245",
	"39": "245", "39.5": "250",
	"40": "250", "40.5": "255",
	"41": "260", "41.5": "265",
	"42": "265", "42.5": "270",
	"43": "275", "43.5": "280",
	"44": "280", "44.5": "285",
	"45": "290", "45.5": "295",
	"46": "300",
}

// clothingSizeMap converts letter-coded apparel sizes to KR numeric sizes.
var clothingSizeMap = map[string]string{
	"XXS": "80", "XS": "85", "S": "90", "M": "95", "L": "100",
	"XL": "105", "XXL": "110", "2XL": "110", "3XL": "115",
}

// krToClothingSize is the reverse table, used only by the flexible
// merge pass to line a KR apparel size up against a letter-coded one.
var krToClothingSize = map[string]string{
	"80": "XXS", "85": "XS", "90": "S", "95": "M", "100": "L",
	"105": "XL", "110": "XXL", "115": "3XL",
}
