package i18n

import "edupath/internal/models"

// catalog is the static translation table. Keys missing from a language fall
// back to English.
var catalog = map[models.Language]map[string]string{
	models.LangEnglish: {
		"app.title":    "EduPath",
		"app.tagline":  "Career guidance for students of Jammu & Kashmir",
		"app.loading":  "Loading...",
		"app.error":    "Something went wrong",
		"app.retry":    "Try again",
		"app.language": "Language",

		"auth.login":           "Login",
		"auth.register":        "Register",
		"auth.logout":          "Logout",
		"auth.email":           "Email",
		"auth.password":        "Password",
		"auth.full_name":       "Full name",
		"auth.role":            "I am a",
		"auth.phone":           "Phone",
		"auth.welcome":         "Welcome",
		"auth.signed_out":      "You have been logged out",
		"auth.not_signed_in":   "Please log in first",
		"auth.session_expired": "Your session has expired, please log in again",

		"role.student":   "Student",
		"role.parent":    "Parent",
		"role.counselor": "Counselor",
		"role.admin":     "Administrator",

		"tab.overview":        "Overview",
		"tab.recommendations": "Career Recommendations",
		"tab.scholarships":    "Scholarships",
		"tab.opportunities":   "Nearby Opportunities",
		"tab.profile":         "Profile",

		"card.recommendations_received": "Recommendations received",
		"card.quizzes_completed":        "Quizzes completed",
		"card.profile_completion":       "Profile completion",
		"card.total_students":           "Total students",
		"card.active_sessions":          "Active sessions",
		"card.recommendations_given":    "Recommendations given",
		"card.scholarships":             "Scholarships available",
		"card.opportunities":            "Opportunities nearby",

		"form.interests":      "Interests (comma separated)",
		"form.academic_level": "Academic level",
		"form.subjects":       "Subjects (comma separated)",
		"form.strengths":      "Strengths (comma separated)",
		"form.career_goals":   "Career goals (comma separated)",
		"form.submit":         "Get recommendations",
		"form.submitting":     "Generating recommendations...",

		"result.match":           "Match",
		"result.description":     "Description",
		"result.education_path":  "Education path",
		"result.local":           "Local opportunities",
		"result.skills":          "Skills needed",
		"result.salary":          "Salary range",
		"result.growth":          "Growth prospects",
		"result.none":            "No recommendations yet",
		"result.history":         "Previous recommendations",
		"scholarship.amount":     "Amount",
		"scholarship.deadline":   "Deadline",
		"scholarship.provider":   "Provider",
		"scholarship.none":       "No scholarships found",
		"opportunity.distance":   "Distance",
		"opportunity.courses":    "Courses",
		"opportunity.rating":     "Rating",
		"opportunity.contact":    "Contact",
		"opportunity.none":       "No opportunities found",
		"profile.academic_level": "Academic level",
		"profile.subjects":       "Subjects",
		"profile.interests":      "Interests",
		"profile.career_goals":   "Career goals",
		"profile.strengths":      "Strengths",
		"profile.saved":          "Profile saved",
		"profile.students_only":  "Only students have a profile",
		"section.failed":         "Could not load this section",

		"validation.email":           "Please enter a valid email address",
		"validation.password":        "Password must be at least 6 characters long",
		"validation.full_name":       "Full name must be at least 2 characters long",
		"validation.role":            "Role must be one of student, parent, counselor, admin",
		"validation.language":        "Preferred language must be one of en, hi, ks",
		"validation.required":        "This field is required",
		"error.network":              "Could not reach the server, please try again",
		"error.in_flight":            "A request is already in progress",
		"error.forbidden":            "You are not allowed to do this",
		"error.unsupported_language": "Unsupported language",
	},
	models.LangHindi: {
		"app.tagline":  "जम्मू और कश्मीर के छात्रों के लिए करियर मार्गदर्शन",
		"app.loading":  "लोड हो रहा है...",
		"app.error":    "कुछ गलत हो गया",
		"app.retry":    "फिर से प्रयास करें",
		"app.language": "भाषा",

		"auth.login":           "लॉगिन",
		"auth.register":        "पंजीकरण",
		"auth.logout":          "लॉगआउट",
		"auth.email":           "ईमेल",
		"auth.password":        "पासवर्ड",
		"auth.full_name":       "पूरा नाम",
		"auth.role":            "मैं हूँ",
		"auth.phone":           "फ़ोन",
		"auth.welcome":         "स्वागत है",
		"auth.signed_out":      "आप लॉगआउट हो गए हैं",
		"auth.not_signed_in":   "कृपया पहले लॉगिन करें",
		"auth.session_expired": "आपका सत्र समाप्त हो गया है, कृपया फिर से लॉगिन करें",

		"role.student":   "छात्र",
		"role.parent":    "अभिभावक",
		"role.counselor": "परामर्शदाता",
		"role.admin":     "प्रशासक",

		"tab.overview":        "अवलोकन",
		"tab.recommendations": "करियर सुझाव",
		"tab.scholarships":    "छात्रवृत्तियाँ",
		"tab.opportunities":   "आस-पास के अवसर",
		"tab.profile":         "प्रोफ़ाइल",

		"card.recommendations_received": "प्राप्त सुझाव",
		"card.quizzes_completed":        "पूर्ण क्विज़",
		"card.profile_completion":       "प्रोफ़ाइल पूर्णता",
		"card.total_students":           "कुल छात्र",
		"card.active_sessions":          "सक्रिय सत्र",
		"card.recommendations_given":    "दिए गए सुझाव",
		"card.scholarships":             "उपलब्ध छात्रवृत्तियाँ",
		"card.opportunities":            "आस-पास के अवसर",

		"form.interests":      "रुचियाँ (अल्पविराम से अलग)",
		"form.academic_level": "शैक्षणिक स्तर",
		"form.subjects":       "विषय (अल्पविराम से अलग)",
		"form.strengths":      "ताकतें (अल्पविराम से अलग)",
		"form.career_goals":   "करियर लक्ष्य (अल्पविराम से अलग)",
		"form.submit":         "सुझाव प्राप्त करें",
		"form.submitting":     "सुझाव तैयार किए जा रहे हैं...",

		"result.match":          "मेल",
		"result.description":    "विवरण",
		"result.education_path": "शिक्षा पथ",
		"result.local":          "स्थानीय अवसर",
		"result.skills":         "आवश्यक कौशल",
		"result.salary":         "वेतन सीमा",
		"result.growth":         "विकास की संभावनाएँ",
		"result.none":           "अभी कोई सुझाव नहीं",
		"result.history":        "पिछले सुझाव",
		"scholarship.amount":    "राशि",
		"scholarship.deadline":  "अंतिम तिथि",
		"scholarship.provider":  "प्रदाता",
		"scholarship.none":      "कोई छात्रवृत्ति नहीं मिली",
		"opportunity.distance":  "दूरी",
		"opportunity.courses":   "पाठ्यक्रम",
		"opportunity.rating":    "रेटिंग",
		"opportunity.contact":   "संपर्क",
		"opportunity.none":      "कोई अवसर नहीं मिला",
		"profile.saved":         "प्रोफ़ाइल सहेजी गई",
		"section.failed":        "यह भाग लोड नहीं हो सका",

		"validation.email":     "कृपया मान्य ईमेल पता दर्ज करें",
		"validation.password":  "पासवर्ड कम से कम 6 अक्षरों का होना चाहिए",
		"validation.full_name": "पूरा नाम कम से कम 2 अक्षरों का होना चाहिए",
		"validation.required":  "यह फ़ील्ड आवश्यक है",
		"error.network":        "सर्वर से संपर्क नहीं हो सका, कृपया फिर से प्रयास करें",
		"error.in_flight":      "एक अनुरोध पहले से चल रहा है",
	},
	models.LangKashmiri: {
		"app.loading":  "لوڈ گژھان...",
		"app.language": "زبان",

		"auth.login":     "لاگ اِن",
		"auth.register":  "رجسٹر",
		"auth.logout":    "لاگ آؤٹ",
		"auth.email":     "ای میل",
		"auth.password":  "پاس ورڈ",
		"auth.full_name": "پوٗرٕ ناو",
		"auth.welcome":   "خوش آمدید",

		"role.student":   "طالب علم",
		"role.parent":    "والدین",
		"role.counselor": "صلاح کار",
		"role.admin":     "منتظم",

		"tab.overview":        "جائزٕ",
		"tab.recommendations": "کیریئر مشورٕ",
		"tab.scholarships":    "وظیفہٕ",
		"tab.opportunities":   "نزدیٖک موقعہٕ",
		"tab.profile":         "پروفائل",

		"form.submit":   "مشورٕ حٲصِل کٔریو",
		"result.none":   "وۄنۍ کانٛہہ مشورٕ نہٕ",
		"result.skills": "ضروری ہُنر",
	},
}
