package auth

// Flow identifies which auth screen an error came from; some provider codes read
// differently per flow (e.g. user_not_found during sign-in vs password reset).
type Flow string

// Auth flows.
const (
	FlowSignIn Flow = "signin"
	FlowSignUp Flow = "signup"
	FlowReset  Flow = "reset"
)

// commonMessages maps provider error codes that read the same on every screen.
var commonMessages = map[string]string{
	"validation_failed":       "メールアドレスの形式が正しくありません。",
	"weak_password":           "パスワードは6文字以上で入力してください。",
	"over_request_rate_limit": "試行回数が多すぎます。しばらく時間をおいてから再度お試しください。",
}

// flowMessages maps provider error codes with flow-specific wording.
var flowMessages = map[Flow]map[string]string{
	FlowSignIn: {
		"invalid_credentials": "メールアドレスまたはパスワードが正しくありません。",
		"email_not_confirmed": "メールアドレスが確認されていません。確認メールをご確認ください。",
		"user_not_found":      "このメールアドレスは登録されていません。",
	},
	FlowSignUp: {
		"user_already_exists": "このメールアドレスは既に登録されています。",
		"signup_disabled":     "現在新規登録は停止されています。",
	},
	FlowReset: {
		"user_not_found":             "このメールアドレスは登録されていません。",
		"over_email_send_rate_limit": "リセットメールの送信回数が上限に達しました。しばらく時間をおいてから再度お試しください。",
	},
}

// flowDefaults is the fallback message per flow when neither a code mapping nor a
// raw provider message is available.
var flowDefaults = map[Flow]string{
	FlowSignIn: "ログインに失敗しました。",
	FlowSignUp: "アカウント作成に失敗しました。",
	FlowReset:  "処理に失敗しました。",
}

// Message translates a provider error into user-facing text. Lookup order: the
// flow-specific table, the common table, the raw provider message, the flow default.
func Message(flow Flow, code, raw string) string {
	if m, ok := flowMessages[flow][code]; ok {
		return m
	}

	if m, ok := commonMessages[code]; ok {
		return m
	}

	if raw != "" {
		return raw
	}

	if d, ok := flowDefaults[flow]; ok {
		return d
	}

	return flowDefaults[FlowReset]
}
