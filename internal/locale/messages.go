package locale

import "strings"

var catalog = map[Language]map[string]string{
	English: {
		"validation.required":      "This field is required",
		"validation.email":         "Please enter a valid email address",
		"validation.phone":         "Please enter a valid phone number",
		"validation.nationalId":    "Please enter a valid National ID",
		"validation.date":          "Please enter a valid date",
		"validation.pastDate":      "Date must be in the past",
		"validation.adult":         "You must be 18 or older",
		"validation.minLength":     "Must be at least {{min}} characters",
		"validation.maxLength":     "Must be no more than {{max}} characters",
		"validation.numeric":       "Please enter a valid number",
		"validation.positive":      "Must be a positive number",
		"validation.max":           "Must be no more than {{max}}",
		"validation.invalidOption": "Please select a valid option",

		"ai.error.timeout":     "Request timed out. Please try again.",
		"ai.error.network":     "Network error. Please check your connection and try again.",
		"ai.error.auth":        "AI service is misconfigured. Please contact support.",
		"ai.error.rateLimit":   "API rate limit exceeded. Please try again later.",
		"ai.error.unavailable": "AI service is temporarily unavailable. Please try again later.",
		"ai.error.generic":     "Failed to generate assistance. Please try again.",

		"submission.error.generic": "Failed to submit application. Please try again.",
		"submission.inFlight":      "Your application is already being submitted.",

		"confirmation.subject": "Your social support application {{ref}}",
		"confirmation.body":    "Dear {{name}},\n\nWe have received your social support application. Your reference number is {{ref}}.\nKeep it for your records; you will need it to follow up on your application.\n\nSocial Support Services",
		"confirmation.sms":     "Your social support application was received. Reference: {{ref}}",
	},
	Arabic: {
		"validation.required":      "هذا الحقل مطلوب",
		"validation.email":         "يرجى إدخال بريد إلكتروني صحيح",
		"validation.phone":         "يرجى إدخال رقم هاتف صحيح",
		"validation.nationalId":    "يرجى إدخال رقم هوية وطنية صحيح",
		"validation.date":          "يرجى إدخال تاريخ صحيح",
		"validation.pastDate":      "يجب أن يكون التاريخ في الماضي",
		"validation.adult":         "يجب أن تكون 18 سنة أو أكبر",
		"validation.minLength":     "يجب أن يكون على الأقل {{min}} حروف",
		"validation.maxLength":     "يجب ألا يزيد عن {{max}} حروف",
		"validation.numeric":       "يرجى إدخال رقم صحيح",
		"validation.positive":      "يجب أن يكون رقماً موجباً",
		"validation.max":           "يجب ألا تزيد القيمة عن {{max}}",
		"validation.invalidOption": "يرجى اختيار خيار صحيح",

		"ai.error.timeout":     "انتهت مهلة الطلب. يرجى المحاولة مرة أخرى.",
		"ai.error.network":     "خطأ في الشبكة. يرجى التحقق من الاتصال والمحاولة مرة أخرى.",
		"ai.error.auth":        "خدمة الذكاء الاصطناعي غير مهيأة بشكل صحيح. يرجى التواصل مع الدعم.",
		"ai.error.rateLimit":   "تم تجاوز حد الطلبات. يرجى المحاولة لاحقاً.",
		"ai.error.unavailable": "خدمة الذكاء الاصطناعي غير متاحة مؤقتاً. يرجى المحاولة لاحقاً.",
		"ai.error.generic":     "تعذر إنشاء المساعدة. يرجى المحاولة مرة أخرى.",

		"submission.error.generic": "تعذر إرسال الطلب. يرجى المحاولة مرة أخرى.",
		"submission.inFlight":      "جاري إرسال طلبك بالفعل.",

		"confirmation.subject": "طلب المساعدة الاجتماعية الخاص بك {{ref}}",
		"confirmation.body":    "عزيزي/عزيزتي {{name}}،\n\nلقد استلمنا طلب المساعدة الاجتماعية الخاص بك. رقمك المرجعي هو {{ref}}.\nيرجى الاحتفاظ به لمتابعة طلبك.\n\nخدمات المساعدة الاجتماعية",
		"confirmation.sms":     "تم استلام طلب المساعدة الاجتماعية الخاص بك. الرقم المرجعي: {{ref}}",
	},
}

// Message returns the string for key in lang with {{name}} placeholders
// replaced from params. Missing Arabic strings fall back to English and
// unknown keys are returned as-is.
func Message(lang Language, key string, params map[string]string) string {
	msg, ok := catalog[lang][key]
	if !ok {
		if msg, ok = catalog[English][key]; !ok {
			return key
		}
	}
	for name, value := range params {
		msg = strings.ReplaceAll(msg, "{{"+name+"}}", value)
	}
	return msg
}
