package assist

import (
	"context"

	"social-support/internal/common/metrics"
	"social-support/internal/form"
	"social-support/internal/locale"
)

// Offline serves canned narratives without any network call.
type Offline struct{}

func NewOffline() *Offline { return &Offline{} }

func (o *Offline) Suggest(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lang := req.Language
	if !lang.Valid() {
		lang = locale.English
	}
	text, ok := canned[lang][req.Field]
	if !ok {
		return "", newError(CategoryGeneric, lang, 0, nil)
	}
	metrics.AISuggestions.WithLabelValues("offline", "ok").Inc()
	return text, nil
}

var canned = map[locale.Language]map[form.NarrativeField]string{
	locale.English: {
		form.FieldFinancialSituation: "I am currently experiencing significant financial hardship due to my unemployment status. With no steady income, I am struggling to meet basic needs including rent, utilities, and groceries for my family. My monthly expenses exceed $2,000 while I have no regular income. I have been applying for jobs actively but have not yet secured employment. The lack of income has made it increasingly difficult to provide for my dependents and maintain our housing situation. This financial assistance would help bridge the gap while I continue searching for stable employment.",
		form.FieldEmploymentCircumstances: "I have been unemployed for the past three months after my previous employer had to let me go due to company downsizing. Before that, I worked steadily for two years in retail. I am actively searching for employment and have submitted applications to numerous positions in retail, customer service, and warehouse work. However, I face challenges including limited transportation options and the need to arrange childcare for my dependents. I have been utilizing online job boards and visiting potential employers in person. Despite my efforts, I have not yet secured a new position, which has created this urgent need for temporary financial support.",
		form.FieldReasonForApplying: "I am applying for this financial assistance to help stabilize my family's situation during this challenging period of unemployment. The assistance would primarily help cover essential expenses including housing, utilities, and food while I continue my active job search. This support would prevent us from falling behind on rent and ensure my dependents have their basic needs met. I am committed to finding employment and becoming self-sufficient again. This temporary assistance would provide the stability needed to focus on securing stable employment without the immediate stress of potential eviction or utility disconnection.",
	},
	locale.Arabic: {
		form.FieldFinancialSituation: "أمر حالياً بضائقة مالية كبيرة بسبب فقداني لعملي. ليس لدي دخل ثابت، وأواجه صعوبة في تغطية الاحتياجات الأساسية لأسرتي مثل الإيجار وفواتير الخدمات والمواد الغذائية. تتجاوز نفقاتي الشهرية ألفي دولار في حين لا يوجد لدي دخل منتظم. أتقدم بطلبات توظيف باستمرار لكنني لم أحصل على عمل حتى الآن. أصبح توفير احتياجات من أعولهم والمحافظة على مسكننا أمراً صعباً بشكل متزايد، وستساعدني هذه المساعدة على تجاوز هذه الفترة إلى أن أجد عملاً مستقراً.",
		form.FieldEmploymentCircumstances: "أنا عاطل عن العمل منذ ثلاثة أشهر بعد أن اضطر صاحب العمل السابق إلى الاستغناء عني بسبب تقليص عدد الموظفين. قبل ذلك عملت بشكل متواصل لمدة عامين في قطاع التجزئة. أبحث عن عمل بجدية وقدمت طلبات لعدد من الوظائف في التجزئة وخدمة العملاء والمستودعات. لكنني أواجه تحديات منها محدودية وسائل النقل والحاجة إلى ترتيب رعاية أطفالي. أستخدم مواقع التوظيف الإلكترونية وأزور أصحاب العمل بنفسي، ورغم ذلك لم أحصل على وظيفة جديدة بعد، مما جعل حاجتي إلى دعم مالي مؤقت أمراً عاجلاً.",
		form.FieldReasonForApplying: "أتقدم بطلب هذه المساعدة المالية لتحقيق الاستقرار لأسرتي خلال هذه الفترة الصعبة من البطالة. ستساعد هذه المساعدة بشكل أساسي في تغطية النفقات الضرورية مثل السكن والخدمات والطعام أثناء استمراري في البحث عن عمل. سيمنع هذا الدعم تأخرنا في سداد الإيجار ويضمن تلبية الاحتياجات الأساسية لمن أعولهم. أنا ملتزم بإيجاد عمل والاعتماد على نفسي من جديد، وستمنحني هذه المساعدة المؤقتة الاستقرار اللازم للتركيز على الحصول على عمل دائم دون الضغط المباشر لخطر الإخلاء أو انقطاع الخدمات.",
	},
}
