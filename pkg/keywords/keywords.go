// Package keywords holds the static vocabulary the place engine classifies
// against: dish names, vibe terms, activities, moods, dating negatives and
// the Hanoi district dictionary. The tables are package-level data and are
// never mutated at runtime; matchers copy before sorting.
package keywords

// FoodKeywords lists dish and drink names that mark a query as a food
// entity search. Compound dishes are listed next to their base term; the
// classifier sorts longest-first so "bún chả" wins over "bún".
var FoodKeywords = []string{
	// Mains
	"phở", "bún", "bún chả", "bún đậu", "bún bò", "bún riêu", "bún ốc",
	"miến", "miến gà", "miến lươn", "miến cua",
	"cơm", "cơm tấm", "cơm rang", "cơm chiên",
	"bánh mì", "bánh cuốn", "bánh đa", "bánh tôm",
	"xôi", "xôi xéo", "xôi gấc", "xôi vò",
	"chả cá", "nem", "nem chua rán", "nem rán",
	"lẩu", "lẩu bò", "lẩu thái", "lẩu hải sản",
	"nướng", "bbq", "buffet", "hotpot",

	// Snacks and desserts
	"chè", "kem", "trà sữa", "sinh tố",
	"bánh trôi", "bánh chay", "bánh rán",
	"đậu hủ", "tào phớ", "sữa chua",

	// Fast food
	"pizza", "burger", "gà rán", "pasta", "sushi",

	// Drinks
	"cafe", "coffee", "cà phê", "trà", "nước ép",

	// Other Asian
	"dimsum", "mì", "mì vằn thắn", "hoành thánh",
	"cháo", "súp", "canh",
}

// VibeKeywords mark a query as an atmosphere/occasion search.
var VibeKeywords = []string{
	// Dating and romance
	"hẹn hò", "date", "dating", "lãng mạn", "romantic", "romance",
	"riêng tư", "private", "kín đáo", "ấm cúng", "cozy",
	"buổi hẹn", "đi hẹn", "hẹn với crush", "đưa crush", "đưa bạn gái", "đưa bạn trai",
	"couple", "đôi lứa", "tình nhân", "người yêu",

	// Mood and atmosphere
	"chill", "thư giãn", "relax", "yên tĩnh", "quiet", "peaceful",
	"sôi động", "lively", "náo nhiệt", "vui vẻ", "fun",

	// Visual
	"view đẹp", "view", "cảnh đẹp", "scenic", "sống ảo", "instagram",
	"đẹp", "aesthetic", "vintage", "sang trọng", "luxury", "cao cấp",
	"ánh sáng đẹp", "không gian đẹp", "trang trí đẹp",

	// Social context
	"gia đình", "family", "bạn bè", "friends", "đám đông", "nhóm",

	// Study / work
	"học bài", "study", "làm việc", "work", "làm việc nhóm",
}

// VibeToTags maps a matched vibe keyword to the place tags it implies. A
// keyword with no entry falls back to itself as the only tag.
var VibeToTags = map[string][]string{
	"hẹn hò":   {"lãng mạn", "romantic", "view đẹp", "ấm cúng", "riêng tư", "rooftop", "fine dining"},
	"date":     {"lãng mạn", "romantic", "view đẹp", "ấm cúng", "riêng tư", "rooftop"},
	"dating":   {"lãng mạn", "romantic", "view đẹp", "ấm cúng", "riêng tư"},
	"buổi hẹn": {"lãng mạn", "view đẹp", "ấm cúng", "riêng tư", "rooftop"},
	"lãng mạn": {"lãng mạn", "romantic", "ấm cúng", "view đẹp", "riêng tư", "rooftop"},
	"romantic": {"lãng mạn", "romantic", "ấm cúng", "view đẹp", "riêng tư"},
	"riêng tư": {"riêng tư", "private", "kín đáo", "yên tĩnh", "ấm cúng"},
	"couple":   {"lãng mạn", "romantic", "view đẹp", "ấm cúng", "riêng tư"},
	"đôi lứa":  {"lãng mạn", "view đẹp", "ấm cúng", "riêng tư"},

	"chill":    {"chill", "thư giãn", "relax", "yên tĩnh"},
	"yên tĩnh": {"yên tĩnh", "quiet", "peaceful", "chill"},
	"sôi động": {"sôi động", "lively", "vui vẻ", "náo nhiệt"},

	"view đẹp": {"view đẹp", "scenic", "cảnh đẹp", "sống ảo"},
	"sống ảo":  {"sống ảo", "instagram", "aesthetic", "đẹp"},

	"gia đình": {"gia đình", "family-friendly", "thân thiện"},
	"bạn bè":   {"bạn bè", "nhóm", "tụ tập"},

	"học bài":  {"yên tĩnh", "study-friendly", "wifi", "ổ điện"},
	"làm việc": {"work-friendly", "wifi", "yên tĩnh", "ổ điện"},
}

// ActivityKeywords mark a query as an activity search (karaoke, sport, music).
var ActivityKeywords = []string{
	"karaoke", "hát", "sing",
	"xem bóng đá", "xem bóng", "bóng đá", "football",
	"live music", "nhạc sống", "acoustic",
	"boardgame", "board game", "chơi game",
	"bi-a", "billiards", "pool",
	"bowling",
	"gym", "thể thao", "workout",
}

// DatingKeywords flip the query into dating mode.
var DatingKeywords = []string{
	"hẹn hò", "date", "dating", "lãng mạn", "romantic",
	"buổi hẹn", "đưa crush", "đưa bạn gái", "đưa bạn trai", "couple",
}

// DatingNegativeKeywords name places unsuitable for a date. In dating mode
// a place whose name or description mentions one of these is dropped.
var DatingNegativeKeywords = []string{
	// Accommodation
	"nhà nghỉ", "khách sạn", "hotel", "motel", "homestay",

	// Buffet and drinking spots
	"buffet", "nhậu", "bia", "bar bia", "quán nhậu", "bia hơi",

	// Street food and casual eats
	"xiên", "đồ xiên", "quán xiên", "bún đậu", "bún đậu mắm tôm",
	"nem", "nem nướng", "nem chua rán", "ốc", "quán ốc",
	"vỉa hè", "lề đường", "ăn vặt",
}

// FoodCategories are the place categories a food-entity result may carry.
// Anything outside this set (karaoke, spa, gym, ...) is not food.
var FoodCategories = []string{
	"Quán ăn", "Nhà hàng", "Quán cafe", "Quán ăn vặt", "Buffet",
	"Tiệm ăn", "Ăn uống", "Cafe", "Coffee", "Trà sữa", "Dessert",
	"Chay", "Hải sản", "Lẩu", "Nướng", "BBQ", "Fast food",
}

// DrinkCategories are food categories that serve drinks rather than dishes.
// A dish query drops these unless the place itself mentions the dish.
var DrinkCategories = []string{
	"Quán cafe", "Cafe", "Coffee", "Trà sữa",
}

// DrinkKeywords are the food keywords that ask for a drink place, where the
// drink categories above are the right answer rather than an exclusion.
var DrinkKeywords = []string{
	"cafe", "coffee", "cà phê", "trà", "trà sữa", "nước ép", "sinh tố",
}

// Mood describes a detected emotional state and the tag sets it implies.
type Mood struct {
	Name        string
	Keywords    []string
	RelatedTags []string
	ExcludeTags []string
}

// Moods are checked in order; the first keyword hit wins.
var Moods = []Mood{
	{
		Name:        "sad",
		Keywords:    []string{"buồn", "sầu", "tâm trạng", "chán", "thất tình", "cô đơn", "lòng nặng trĩu"},
		RelatedTags: []string{"yên tĩnh", "riêng tư", "chill", "nhạc nhẹ", "acoustic", "góc nhỏ", "trầm lắng"},
		ExcludeTags: []string{"sôi động", "edm", "tụ tập đông", "náo nhiệt", "bar sàn", "nhạc mạnh"},
	},
	{
		Name:        "happy",
		Keywords:    []string{"vui", "phấn khích", "ăn mừng", "quẩy", "hạnh phúc", "yêu đời"},
		RelatedTags: []string{"sôi động", "năng động", "nhạc sống", "view đẹp", "tụ tập", "party", "vui vẻ"},
		ExcludeTags: []string{"yên tĩnh", "trầm lắng", "buồn"},
	},
	{
		Name:        "stress",
		Keywords:    []string{"áp lực", "mệt mỏi", "stress", "căng thẳng", "bế tắc", "muốn đi trốn"},
		RelatedTags: []string{"thiên nhiên", "thoáng đãng", "chữa lành", "spa", "massage", "thư giãn", "bình yên", "trong lành"},
		ExcludeTags: []string{"ồn ào", "đông đúc", "chen chúc"},
	},
	{
		Name:        "romantic",
		Keywords:    []string{"hẹn hò", "người yêu", "lãng mạn", "tỏ tình", "cầu hôn", "kỷ niệm", "date"},
		RelatedTags: []string{"lãng mạn", "ấm cúng", "view hồ", "rooftop", "fine dining", "nhà hàng pháp", "nến"},
		ExcludeTags: []string{"bình dân", "vỉa hè ồn ào", "quán nhậu", "bụi bặm"},
	},
	{
		Name:        "chill",
		Keywords:    []string{"chill", "thư giãn", "nhẹ nhàng", "bình thản", "relax"},
		RelatedTags: []string{"chill", "view đẹp", "nhạc chill", "lofi", "nhẹ nhàng", "cafe sách"},
		ExcludeTags: []string{"xập xình", "ồn ào"},
	},
}

// AccommodationKeywords put the query into accommodation mode.
var AccommodationKeywords = []string{
	"nhà nghỉ", "khách sạn", "hotel", "homestay", "resort", "lưu trú", "qua đêm",
}

// LuxuryKeywords upgrade an accommodation query to the high-end price band.
var LuxuryKeywords = []string{
	"cao cấp", "sang trọng", "luxury", "5 sao", "4 sao", "hạng sang",
}

// AccommodationCategory is the catalog category for places to stay.
const AccommodationCategory = "Lưu trú"

// ItineraryKeywords suggest the user wants a plan rather than a single place.
var ItineraryKeywords = []string{
	"lịch trình", "kế hoạch", "lên lịch", "cả ngày", "một ngày",
	"buổi tối", "tối nay", "itinerary", "plan", "lịch đi chơi",
}

// Districts is the canonical Hanoi district list as stored in the catalog.
var Districts = []string{
	"Ba Đình", "Hoàn Kiếm", "Tây Hồ", "Long Biên", "Cầu Giấy", "Đống Đa",
	"Thanh Xuân", "Nam Từ Liêm", "Bắc Từ Liêm", "Hà Đông", "Hoàng Mai",
	"Hai Bà Trưng",
}

// DistrictVariants maps user spellings (missing tones, "q."/"quận" prefixes)
// to canonical district names. Lookup is longest-variant-first.
var DistrictVariants = map[string]string{
	// Ba Đình
	"ba dinh": "Ba Đình", "ba đình": "Ba Đình", "ba dình": "Ba Đình",
	"q ba dinh": "Ba Đình", "q.ba dinh": "Ba Đình",
	"quan ba dinh": "Ba Đình", "quận ba đình": "Ba Đình",

	// Hoàn Kiếm
	"hoan kiem": "Hoàn Kiếm", "hoàn kiếm": "Hoàn Kiếm", "hoan kíem": "Hoàn Kiếm",
	"q hoan kiem": "Hoàn Kiếm", "quận hoàn kiếm": "Hoàn Kiếm",

	// Tây Hồ
	"tay ho": "Tây Hồ", "tây hồ": "Tây Hồ", "tây ho": "Tây Hồ",
	"q tay ho": "Tây Hồ", "quận tây hồ": "Tây Hồ",

	// Long Biên
	"long bien": "Long Biên", "long biên": "Long Biên",
	"q long bien": "Long Biên", "quận long biên": "Long Biên",

	// Cầu Giấy
	"cau giay": "Cầu Giấy", "cầu giấy": "Cầu Giấy", "cầu giay": "Cầu Giấy",
	"q cau giay": "Cầu Giấy", "quận cầu giấy": "Cầu Giấy",

	// Đống Đa
	"dong da": "Đống Đa", "đống đa": "Đống Đa", "đống da": "Đống Đa",
	"dong đa": "Đống Đa", "q dong da": "Đống Đa", "q.dong da": "Đống Đa",
	"quan dong da": "Đống Đa", "quận đống đa": "Đống Đa",
	"q đống đa": "Đống Đa", "q. đống đa": "Đống Đa",

	// Thanh Xuân
	"thanh xuan": "Thanh Xuân", "thanh xuân": "Thanh Xuân",
	"q thanh xuan": "Thanh Xuân", "quận thanh xuân": "Thanh Xuân",

	// Nam Từ Liêm
	"nam tu liem": "Nam Từ Liêm", "nam từ liêm": "Nam Từ Liêm", "nam tử liêm": "Nam Từ Liêm",
	"q nam tu liem": "Nam Từ Liêm", "quận nam từ liêm": "Nam Từ Liêm",

	// Bắc Từ Liêm
	"bac tu liem": "Bắc Từ Liêm", "bắc từ liêm": "Bắc Từ Liêm", "bắc tử liêm": "Bắc Từ Liêm",
	"q bac tu liem": "Bắc Từ Liêm", "quận bắc từ liêm": "Bắc Từ Liêm",

	// Hà Đông
	"ha dong": "Hà Đông", "hà đông": "Hà Đông", "ha đông": "Hà Đông",
	"q ha dong": "Hà Đông", "quận hà đông": "Hà Đông",

	// Hoàng Mai
	"hoang mai": "Hoàng Mai", "hoàng mai": "Hoàng Mai",
	"q hoang mai": "Hoàng Mai", "quận hoàng mai": "Hoàng Mai",

	// Hai Bà Trưng
	"hai ba trung": "Hai Bà Trưng", "hai bà trưng": "Hai Bà Trưng", "hai ba trưng": "Hai Bà Trưng",
	"q hai ba trung": "Hai Bà Trưng", "quận hai bà trưng": "Hai Bà Trưng",
}

// AddressMarker pairs a literal marker word with the regex alternation
// used when building a flexible address pattern from user text.
type AddressMarker struct {
	Key     string
	Pattern string
}

var AddressMarkers = []AddressMarker{
	{Key: "ngõ", Pattern: `(?:ngõ|ng\.?)`},
	{Key: "ngách", Pattern: `(?:ngách|ngh\.?)`},
	{Key: "phố", Pattern: `(?:phố|p\.?)`},
	{Key: "đường", Pattern: `(?:đường|đ\.?)`},
	{Key: "quận", Pattern: `(?:quận|q\.?)`},
	{Key: "phường", Pattern: `(?:phường|p\.?)`},
}

// StopWords cut an extracted address suffix short. Leading/trailing
// spaces matter: they keep the match from firing inside a longer word.
var StopWords = []string{
	" với ", " giá ", " khoảng ", " tầm ", " hết ", " cho ", " có ",
	" không", " nào", " nhỉ", " ạ", " ở đâu", " đâu",
	" để ", " làm ", " việc ", " ở ", " muốn ",
}

var VegetarianKeywords = []string{
	"chay", "thuần chay", "thuan chay", "vegetarian", "vegan",
}

// SpecificFoodKeywords mark a query as asking for a concrete dish, which
// overrides dietary preference rewriting.
var SpecificFoodKeywords = []string{
	"phở", "pho", "bún chả", "bun cha", "thịt", "thit", "lẩu", "lau",
	"bò", "bo", "gà", "ga", "heo", "cá", "ca", "hải sản", "hai san",
	"nhậu", "nhau", "bia", "bar", "pub", "bbq", "nướng", "nuong",
	"bún bò", "bun bo", "cơm tấm", "com tam", "bánh mì thịt", "banh mi thit",
}

// GenericFoodKeywords mark an open-ended "find me food" query.
var GenericFoodKeywords = []string{
	"quán ăn", "quan an", "ăn gì", "an gi", "tìm quán", "tim quan",
	"gợi ý quán", "goi y quan", "ăn ở đâu", "an o dau", "đi ăn", "di an",
	"tìm chỗ ăn", "tim cho an", "muốn ăn", "muon an",
}

// NearbyFoodKeywords are extracted from a near-me query so the geo
// search can match on the dish instead of the full sentence.
var NearbyFoodKeywords = []string{
	"phở", "bún", "bánh mì", "cơm", "chả cá", "nem", "lẩu", "nướng",
	"cafe", "coffee", "bún chả", "bún bò", "bún riêu",
}
