package i18n

// Translator retrieves localized messages for rule and error codes.
// data provides optional metadata to embed in the message (for example,
// "min" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "missing_key":
			return "必須キーが不足しています"
		case "cast_failed":
			return "型変換に失敗しました"
		case "required":
			return "必須項目です"
		case "email":
			return "メールアドレスが不正です"
		case "url":
			return "URLが不正です"
		case "uuid":
			return "UUIDが不正です"
		case "min":
			return "小さすぎます"
		case "max":
			return "大きすぎます"
		case "between":
			return "範囲外です"
		case "length":
			return "長さが不正です"
		case "regexp":
			return "形式が不正です"
		case "required_if":
			return "条件付き必須項目です"
		case "expr":
			return "条件を満たしていません"
		case "valid":
			return "ネストした値が不正です"
		case "lazy_collision":
			return "遅延プロパティ名が重複しています"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "missing_key":
			return "required key missing"
		case "cast_failed":
			return "cast failed"
		case "required":
			return "value is required"
		case "email":
			return "invalid email address"
		case "url":
			return "invalid URL"
		case "uuid":
			return "invalid UUID"
		case "min":
			return "value is too small"
		case "max":
			return "value is too big"
		case "between":
			return "value is out of range"
		case "length":
			return "invalid length"
		case "regexp":
			return "value does not match pattern"
		case "required_if":
			return "value is required by condition"
		case "expr":
			return "expression not satisfied"
		case "valid":
			return "nested value is invalid"
		case "lazy_collision":
			return "lazy property name collides with a declared property"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
