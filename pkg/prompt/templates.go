package prompt

// SystemPrompt sets the assistant persona for every chat call.
const SystemPrompt = `Bạn là trợ lý gợi ý địa điểm ở Hà Nội, thân thiện và trả lời bằng tiếng Việt.
Bạn chỉ được gợi ý các địa điểm có trong danh sách ngữ cảnh được cung cấp, tuyệt đối không bịa thêm địa điểm.
Với mỗi địa điểm hãy nêu tên, địa chỉ và mức giá nếu có.`

// chatTemplate is the standard grounded-answer prompt. Placeholders:
// context, question, weather, datetime, preferences.
const chatTemplate = `%[1]s

THÔNG TIN THỜI GIAN THỰC:
%[3]s
%[4]s
%[5]s

CÂU HỎI CỦA NGƯỜI DÙNG: %[2]s

Hãy trả lời tự nhiên bằng tiếng Việt. Gợi ý các địa điểm THEO ĐÚNG THỨ TỰ RANK trong danh sách.
Nếu trời mưa hãy ưu tiên và nhấn mạnh các địa điểm trong nhà, ấm cúng.`

// queryRewriteTemplate normalizes a colloquial query into search terms.
const queryRewriteTemplate = `Viết lại câu hỏi sau thành một câu truy vấn tìm kiếm địa điểm ngắn gọn, giữ nguyên các từ khóa quan trọng (tên món ăn, quận, tính chất quán). Chỉ trả về câu truy vấn, không giải thích.

Câu hỏi: %s
Truy vấn:`

// intentClassifyTemplate asks the model to split CHAT from ITINERARY.
const intentClassifyTemplate = `Phân loại câu hỏi sau. Trả về đúng một từ: ITINERARY nếu người dùng muốn một lịch trình đi chơi nhiều địa điểm theo khung giờ, ngược lại trả về CHAT.

Câu hỏi: %s
Phân loại:`

// Itinerary prompts. The answer must embed one JSON object so the
// client can render a timeline; prose around it is tolerated and
// stripped during parsing.
const itineraryJSONShape = `Cuối câu trả lời, kèm một object JSON duy nhất dạng:
{"itinerary":[{"time":"08:00","placeName":"...","activity":"...","note":"..."}]}
Chỉ dùng các địa điểm trong danh sách.`

const itineraryFullDayTemplate = `%[1]s

THÔNG TIN THỜI GIAN THỰC:
%[3]s
%[4]s
%[5]s

YÊU CẦU: %[2]s

Hãy lập lịch trình MỘT NGÀY ở Hà Nội (ăn sáng, cafe, tham quan, ăn trưa, di tích, dạo chơi, ăn tối, dạo bộ tối) với khung giờ cụ thể từ 08:00 đến 21:00, chỉ dùng địa điểm trong danh sách.
` + itineraryJSONShape

const itineraryEveningTemplate = `%[1]s

THÔNG TIN THỜI GIAN THỰC:
%[3]s
%[4]s
%[5]s

YÊU CẦU: %[2]s

Hãy lập lịch trình BUỔI TỐI ở Hà Nội với khung giờ cụ thể từ 18:00, chỉ dùng địa điểm trong danh sách.
` + itineraryJSONShape

const itineraryEveningSimpleTemplate = `%[1]s

THÔNG TIN THỜI GIAN THỰC:
%[3]s
%[4]s
%[5]s

YÊU CẦU: %[2]s

Hãy lập lịch trình buổi tối ĐƠN GIẢN, NHẸ NHÀNG ở Hà Nội: ăn nhẹ khoảng 18:00, cafe khoảng 19:30, dạo hồ khoảng 21:00. Chỉ dùng địa điểm trong danh sách.
` + itineraryJSONShape

const itineraryEveningFancyTemplate = `%[1]s

THÔNG TIN THỜI GIAN THỰC:
%[3]s
%[4]s
%[5]s

YÊU CẦU: %[2]s

Hãy lập lịch trình buổi tối CHỈNH CHU, SANG TRỌNG ở Hà Nội: ăn lẩu hoặc buffet cao cấp khoảng 18:00, karaoke khoảng 20:00, nghỉ ngơi tại khách sạn khoảng 22:30. Chỉ dùng địa điểm trong danh sách.
` + itineraryJSONShape
