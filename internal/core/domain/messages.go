package domain

import "fmt"

//nolint:lll // Localised sentences are kept on one line.
var noResultsMessages = map[Language]string{
	LanguageEnglish:  "I couldn't find any relevant information in the uploaded documents for your query. Please try uploading documents that contain the information you're looking for, or rephrase your question.",
	LanguageSpanish:  "No pude encontrar información relevante en los documentos cargados para tu consulta. Por favor, intenta cargar documentos que contengan la información que buscas, o reformula tu pregunta.",
	LanguageFrench:   "Je n'ai pas trouvé d'informations pertinentes dans les documents téléchargés pour votre requête. Veuillez essayer de télécharger des documents contenant les informations que vous recherchez, ou reformuler votre question.",
	LanguageGerman:   "Ich konnte in den hochgeladenen Dokumenten keine relevanten Informationen für Ihre Anfrage finden. Bitte versuchen Sie, Dokumente hochzuladen, die die gesuchten Informationen enthalten, oder formulieren Sie Ihre Frage um.",
	LanguageJapanese: "アップロードされた文書から、あなたの質問に関連する情報を見つけることができませんでした。探している情報を含む文書をアップロードするか、質問を言い換えてください。",
	LanguageKorean:   "업로드된 문서에서 귀하의 질문과 관련된 정보를 찾을 수 없었습니다. 찾고 있는 정보가 포함된 문서를 업로드하거나 질문을 다시 작성해 주세요.",
	LanguageChinese:  "我在上传的文档中找不到与您的问题相关的信息。请尝试上传包含您要查找信息的文档，或重新表述您的问题。",
	LanguageArabic:   "لم أتمكن من العثور على معلومات ذات صلة في المستندات المرفوعة لاستفسارك. يرجى محاولة رفع مستندات تحتوي على المعلومات التي تبحث عنها، أو إعادة صياغة سؤالك.",
	LanguageHindi:    "मैं आपके प्रश्न के लिए अपलोड किए गए दस्तावेजों में कोई प्रासंगिक जानकारी नहीं पा सका। कृपया उन दस्तावेजों को अपलोड करने का प्रयास करें जिनमें आप जिस जानकारी की तलाश कर रहे हैं, या अपने प्रश्न को पुनः तैयार करें।",
	LanguageRussian:  "Я не смог найти релевантную информацию в загруженных документах для вашего запроса. Пожалуйста, попробуйте загрузить документы, содержащие информацию, которую вы ищете, или переформулируйте ваш вопрос.",
}

// NoResultsMessage returns the localised "nothing found" text for target,
// falling back to English.
func NoResultsMessage(target Language) string {
	if msg, ok := noResultsMessages[target]; ok {
		return msg
	}
	return noResultsMessages[LanguageEnglish]
}

// CulturalDirective returns the instruction that asks for an answer or
// translation in target while keeping register and honorifics appropriate.
func CulturalDirective(source, target Language) string {
	name := target.Name()
	if source == target {
		return fmt.Sprintf("Please provide the answer in %s.", name)
	}
	switch target {
	case LanguageJapanese, LanguageKorean:
		return fmt.Sprintf("Please provide the answer in %s, maintaining cultural sensitivity and using appropriate honorifics when relevant.", name)
	case LanguageChinese, LanguageArabic, LanguageHindi, LanguageRussian,
		LanguageGerman, LanguageFrench, LanguageSpanish, LanguageItalian, LanguagePortuguese:
		return fmt.Sprintf("Please provide the answer in %s, maintaining cultural sensitivity and using appropriate formal language when relevant.", name)
	default:
		return fmt.Sprintf("Please provide the answer in %s, maintaining cultural sensitivity.", name)
	}
}
