// Package taiwan provides the static Taiwan 3-digit postal code table used by
// address forms and shipping address validation.
package taiwan

// Zipcode maps a 3-digit postal code to its city and district.
type Zipcode struct {
	Code     string `json:"code"`
	City     string `json:"city"`
	District string `json:"district"`
}

// Some codes cover more than one district (e.g. 300). FromCode returns the
// first entry; ToCode resolves exactly.
var table = []Zipcode{
	{"100", "臺北市", "中正區"},
	{"103", "臺北市", "大同區"},
	{"104", "臺北市", "中山區"},
	{"105", "臺北市", "松山區"},
	{"106", "臺北市", "大安區"},
	{"108", "臺北市", "萬華區"},
	{"110", "臺北市", "信義區"},
	{"111", "臺北市", "士林區"},
	{"112", "臺北市", "北投區"},
	{"114", "臺北市", "內湖區"},
	{"115", "臺北市", "南港區"},
	{"116", "臺北市", "文山區"},
	{"200", "基隆市", "仁愛區"},
	{"201", "基隆市", "信義區"},
	{"202", "基隆市", "中正區"},
	{"203", "基隆市", "中山區"},
	{"204", "基隆市", "安樂區"},
	{"205", "基隆市", "暖暖區"},
	{"206", "基隆市", "七堵區"},
	{"220", "新北市", "板橋區"},
	{"221", "新北市", "汐止區"},
	{"222", "新北市", "深坑區"},
	{"223", "新北市", "石碇區"},
	{"224", "新北市", "瑞芳區"},
	{"226", "新北市", "平溪區"},
	{"227", "新北市", "雙溪區"},
	{"228", "新北市", "貢寮區"},
	{"231", "新北市", "新店區"},
	{"232", "新北市", "坪林區"},
	{"233", "新北市", "烏來區"},
	{"234", "新北市", "永和區"},
	{"235", "新北市", "中和區"},
	{"236", "新北市", "土城區"},
	{"237", "新北市", "三峽區"},
	{"238", "新北市", "樹林區"},
	{"239", "新北市", "鶯歌區"},
	{"241", "新北市", "三重區"},
	{"242", "新北市", "新莊區"},
	{"243", "新北市", "泰山區"},
	{"244", "新北市", "林口區"},
	{"247", "新北市", "蘆洲區"},
	{"248", "新北市", "五股區"},
	{"249", "新北市", "八里區"},
	{"251", "新北市", "淡水區"},
	{"252", "新北市", "三芝區"},
	{"253", "新北市", "石門區"},
	{"260", "宜蘭縣", "宜蘭市"},
	{"265", "宜蘭縣", "羅東鎮"},
	{"270", "宜蘭縣", "蘇澳鎮"},
	{"300", "新竹市", "東區"},
	{"300", "新竹市", "北區"},
	{"300", "新竹市", "香山區"},
	{"320", "桃園市", "中壢區"},
	{"324", "桃園市", "平鎮區"},
	{"325", "桃園市", "龍潭區"},
	{"326", "桃園市", "楊梅區"},
	{"330", "桃園市", "桃園區"},
	{"333", "桃園市", "龜山區"},
	{"334", "桃園市", "八德區"},
	{"335", "桃園市", "大溪區"},
	{"337", "桃園市", "大園區"},
	{"338", "桃園市", "蘆竹區"},
	{"360", "苗栗縣", "苗栗市"},
	{"400", "臺中市", "中區"},
	{"401", "臺中市", "東區"},
	{"402", "臺中市", "南區"},
	{"403", "臺中市", "西區"},
	{"404", "臺中市", "北區"},
	{"406", "臺中市", "北屯區"},
	{"407", "臺中市", "西屯區"},
	{"408", "臺中市", "南屯區"},
	{"411", "臺中市", "太平區"},
	{"412", "臺中市", "大里區"},
	{"420", "臺中市", "豐原區"},
	{"433", "臺中市", "沙鹿區"},
	{"500", "彰化縣", "彰化市"},
	{"510", "彰化縣", "員林市"},
	{"540", "南投縣", "南投市"},
	{"600", "嘉義市", "東區"},
	{"600", "嘉義市", "西區"},
	{"640", "雲林縣", "斗六市"},
	{"700", "臺南市", "中西區"},
	{"701", "臺南市", "東區"},
	{"702", "臺南市", "南區"},
	{"704", "臺南市", "北區"},
	{"708", "臺南市", "安平區"},
	{"709", "臺南市", "安南區"},
	{"710", "臺南市", "永康區"},
	{"800", "高雄市", "新興區"},
	{"801", "高雄市", "前金區"},
	{"802", "高雄市", "苓雅區"},
	{"803", "高雄市", "鹽埕區"},
	{"804", "高雄市", "鼓山區"},
	{"805", "高雄市", "旗津區"},
	{"806", "高雄市", "前鎮區"},
	{"807", "高雄市", "三民區"},
	{"811", "高雄市", "楠梓區"},
	{"812", "高雄市", "小港區"},
	{"813", "高雄市", "左營區"},
	{"814", "高雄市", "仁武區"},
	{"830", "高雄市", "鳳山區"},
	{"880", "澎湖縣", "馬公市"},
	{"893", "金門縣", "金城鎮"},
	{"900", "屏東縣", "屏東市"},
	{"950", "臺東縣", "臺東市"},
	{"970", "花蓮縣", "花蓮市"},
}

// FromCode resolves a postal code to (city, district). Unknown codes return
// empty strings.
func FromCode(code string) (string, string) {
	for _, z := range table {
		if z.Code == code {
			return z.City, z.District
		}
	}
	return "", ""
}

// ToCode resolves (city, district) to the canonical postal code. Unknown
// pairs return an empty string.
func ToCode(city, district string) string {
	for _, z := range table {
		if z.City == city && z.District == district {
			return z.Code
		}
	}
	return ""
}

// ValidLocation reports whether code, city and district agree with the table.
func ValidLocation(code, city, district string) bool {
	for _, z := range table {
		if z.Code == code && z.City == city && z.District == district {
			return true
		}
	}
	return false
}

// Cities returns the distinct city names in table order.
func Cities() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, z := range table {
		if _, ok := seen[z.City]; ok {
			continue
		}
		seen[z.City] = struct{}{}
		out = append(out, z.City)
	}
	return out
}

// Districts returns the districts of a city in table order.
func Districts(city string) []Zipcode {
	out := make([]Zipcode, 0)
	for _, z := range table {
		if z.City == city {
			out = append(out, z)
		}
	}
	return out
}
