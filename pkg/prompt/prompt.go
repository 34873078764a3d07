package prompt

import (
	"fmt"
	"strings"
	"time"

	"ai-places-be/pkg/ranking"
	"ai-places-be/pkg/retrieval"
	"ai-places-be/pkg/weather"
)

const (
	noRealtimeWeather  = "Thời tiết: Không có dữ liệu thời gian thực."
	noRealtimeDatetime = "Thời gian: Không có dữ liệu thời gian thực."
	rainWarning        = "⚠️ CẢNH BÁO: Trời đang MƯA. Ưu tiên địa điểm TRONG NHÀ, nhấn mạnh sự ấm cúng, có mái che."
)

// FormatContext renders the ranked pool into the strict RANK # block the
// model is instructed to follow. The loud framing exists because smaller
// models reorder or invent places without it. When from is set, each
// entry carries its distance from the caller.
func FormatContext(docs []retrieval.Document, from *retrieval.Coordinates) string {
	var b strings.Builder

	b.WriteString("==============================================\n")
	b.WriteString("DANH SÁCH DUY NHẤT BẠN ĐƯỢC GỢI Ý\n")
	b.WriteString("==============================================\n")
	b.WriteString("BẠN CHỈ ĐƯỢC GỢI Ý CÁC ĐỊA ĐIỂM DƯỚI ĐÂY:\n")
	b.WriteString("- KHÔNG ĐƯỢC thêm địa điểm nào khác\n")
	b.WriteString("- KHÔNG ĐƯỢC dùng ký ức về địa điểm khác\n")
	b.WriteString("- PHẢI list địa điểm THEO ĐÚNG THỨ TỰ RANK bên dưới, không đảo ngược\n\n")
	fmt.Fprintf(&b, "DANH SÁCH %d ĐỊA ĐIỂM (ƯU TIÊN THEO THỨ TỰ):\n", len(docs))
	b.WriteString("==============================================\n")

	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}

		name := doc.Metadata.Name
		if name == "" {
			name = fmt.Sprintf("Địa điểm %d", i+1)
		}
		fmt.Fprintf(&b, "RANK #%d [%s]", i+1, name)
		if doc.Metadata.Category != "" {
			fmt.Fprintf(&b, " (%s)", doc.Metadata.Category)
		}
		b.WriteString("\n")

		if doc.Metadata.Address != "" {
			fmt.Fprintf(&b, "Địa chỉ: %s ", doc.Metadata.Address)
		}
		if from != nil && doc.Metadata.Coordinates != nil {
			km := ranking.HaversineKm(*from, *doc.Metadata.Coordinates)
			fmt.Fprintf(&b, "(cách bạn %.1fkm) ", km)
		}
		if doc.Metadata.Price > 0 {
			fmt.Fprintf(&b, "| Giá: %d VND", doc.Metadata.Price)
		} else {
			b.WriteString("| Giá: Liên hệ")
		}
		b.WriteString("\n")

		if doc.Snippet != "" {
			b.WriteString(doc.Snippet)
			b.WriteString("\n")
		}
	}

	b.WriteString("==============================================\n")
	b.WriteString("NHẮC LẠI: PHẢI GỢI Ý THEO ĐÚNG THỨ TỰ RANK Ở TRÊN.\n")
	b.WriteString("==============================================\n")
	return b.String()
}

// FormatPreferences renders saved tastes for prompt injection. Empty
// preferences render as an empty string so the template stays clean.
func FormatPreferences(prefs *ranking.Preferences) string {
	if prefs == nil {
		return ""
	}

	var parts []string
	if len(prefs.FavoriteFoods) > 0 {
		parts = append(parts, "Món ăn yêu thích: "+strings.Join(prefs.FavoriteFoods, ", "))
	}
	if labels := mapLabels(prefs.Styles, styleLabels); len(labels) > 0 {
		parts = append(parts, "Phong cách: "+strings.Join(labels, ", "))
	}
	if labels := mapLabels(prefs.Dietary, dietaryLabels); len(labels) > 0 {
		parts = append(parts, "Chế độ ăn: "+strings.Join(labels, ", "))
	}
	if labels := mapLabels(prefs.Atmosphere, atmosphereLabels); len(labels) > 0 {
		parts = append(parts, "Không khí: "+strings.Join(labels, ", "))
	}
	if labels := mapLabels(prefs.Activities, activityLabels); len(labels) > 0 {
		parts = append(parts, "Hoạt động: "+strings.Join(labels, ", "))
	}

	if len(parts) == 0 {
		return ""
	}
	return "SỞ THÍCH NGƯỜI DÙNG: " + strings.Join(parts, " | ")
}

var styleLabels = map[string]string{
	"modern":      "Hiện đại",
	"traditional": "Truyền thống",
	"cozy":        "Ấm cúng",
	"elegant":     "Thanh lịch",
	"casual":      "Giản dị",
	"upscale":     "Cao cấp",
}

var dietaryLabels = map[string]string{
	"vegetarian":     "Chay",
	"vegan":          "Thuần chay",
	"non-vegetarian": "Ăn mặn",
	"healthy":        "Ăn healthy",
	"low-spicy":      "Ít cay",
	"low-fat":        "Ít dầu mỡ",
	"low-carb":       "Ít tinh bột",
}

var atmosphereLabels = map[string]string{
	"quiet":    "Yên tĩnh",
	"lively":   "Sôi động",
	"cheerful": "Vui nhộn",
	"romantic": "Lãng mạn",
	"cozy":     "Ấm cúng",
	"elegant":  "Thanh lịch",
	"outdoor":  "Ngoài trời",
}

var activityLabels = map[string]string{
	"singing":        "Hát hò",
	"live-music":     "Live music",
	"watch-football": "Xem bóng đá",
	"hangout":        "Tụ tập bạn bè",
	"dating":         "Hẹn hò",
	"work-study":     "Làm việc/học bài",
}

func mapLabels(values []string, labels map[string]string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if label, ok := labels[v]; ok {
			out = append(out, label)
		} else if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// RealtimeBlock renders weather and local-time lines. A nil weather
// snapshot (provider down or realtime disabled) falls back to neutral
// placeholder lines; the rain warning is appended only when raining.
func RealtimeBlock(current *weather.Current, now time.Time) (weatherLine, datetimeLine string) {
	if current == nil {
		return noRealtimeWeather, noRealtimeDatetime
	}

	weatherLine = "Thời tiết: " + current.FullDescription
	if current.IsRaining() {
		weatherLine += "\n" + rainWarning
	}

	local := now.In(hanoiLocation())
	datetimeLine = fmt.Sprintf("Thời gian: %s, %s",
		vietnameseWeekday(local.Weekday()), local.Format("15:04 02/01/2006"))
	return weatherLine, datetimeLine
}

func hanoiLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		return time.FixedZone("ICT", 7*3600)
	}
	return loc
}

func vietnameseWeekday(d time.Weekday) string {
	switch d {
	case time.Monday:
		return "Thứ Hai"
	case time.Tuesday:
		return "Thứ Ba"
	case time.Wednesday:
		return "Thứ Tư"
	case time.Thursday:
		return "Thứ Năm"
	case time.Friday:
		return "Thứ Sáu"
	case time.Saturday:
		return "Thứ Bảy"
	default:
		return "Chủ Nhật"
	}
}

// BuildChatPrompt assembles the grounded-answer prompt.
func BuildChatPrompt(context, question, weatherLine, datetimeLine, preferences string) string {
	return fmt.Sprintf(chatTemplate, context, question, weatherLine, datetimeLine, preferences)
}

// BuildItineraryPrompt assembles the itinerary prompt for the requested
// scope.
func BuildItineraryPrompt(itineraryType retrieval.ItineraryType, context, question, weatherLine, datetimeLine, preferences string) string {
	template := itineraryFullDayTemplate
	switch itineraryType {
	case retrieval.ItineraryEveningSimple:
		template = itineraryEveningSimpleTemplate
	case retrieval.ItineraryEveningFancy:
		template = itineraryEveningFancyTemplate
	case retrieval.ItineraryEveningFull:
		template = itineraryEveningTemplate
	}
	return fmt.Sprintf(template, context, question, weatherLine, datetimeLine, preferences)
}

// BuildQueryRewritePrompt asks the model to compact a colloquial query.
func BuildQueryRewritePrompt(original string) string {
	return fmt.Sprintf(queryRewriteTemplate, original)
}

// BuildIntentClassifyPrompt asks the model for CHAT vs ITINERARY.
func BuildIntentClassifyPrompt(question string) string {
	return fmt.Sprintf(intentClassifyTemplate, question)
}
