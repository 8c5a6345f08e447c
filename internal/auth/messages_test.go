package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		flow Flow
		code string
		raw  string
		want string
	}{
		{
			name: "signin invalid credentials",
			flow: FlowSignIn,
			code: "invalid_credentials",
			raw:  "Invalid login credentials",
			want: "メールアドレスまたはパスワードが正しくありません。",
		},
		{
			name: "signin email not confirmed",
			flow: FlowSignIn,
			code: "email_not_confirmed",
			want: "メールアドレスが確認されていません。確認メールをご確認ください。",
		},
		{
			name: "signin unknown user",
			flow: FlowSignIn,
			code: "user_not_found",
			want: "このメールアドレスは登録されていません。",
		},
		{
			name: "signup already registered",
			flow: FlowSignUp,
			code: "user_already_exists",
			raw:  "User already registered",
			want: "このメールアドレスは既に登録されています。",
		},
		{
			name: "signup disabled",
			flow: FlowSignUp,
			code: "signup_disabled",
			want: "現在新規登録は停止されています。",
		},
		{
			name: "reset unknown user",
			flow: FlowReset,
			code: "user_not_found",
			want: "このメールアドレスは登録されていません。",
		},
		{
			name: "reset email rate limit",
			flow: FlowReset,
			code: "over_email_send_rate_limit",
			want: "リセットメールの送信回数が上限に達しました。しばらく時間をおいてから再度お試しください。",
		},
		{
			name: "common invalid email applies to any flow",
			flow: FlowSignUp,
			code: "validation_failed",
			want: "メールアドレスの形式が正しくありません。",
		},
		{
			name: "common weak password applies to any flow",
			flow: FlowSignUp,
			code: "weak_password",
			want: "パスワードは6文字以上で入力してください。",
		},
		{
			name: "common rate limit applies to any flow",
			flow: FlowSignIn,
			code: "over_request_rate_limit",
			want: "試行回数が多すぎます。しばらく時間をおいてから再度お試しください。",
		},
		{
			name: "unknown code falls back to the raw provider message",
			flow: FlowSignIn,
			code: "something_new",
			raw:  "A brand new failure",
			want: "A brand new failure",
		},
		{
			name: "unknown code without raw message falls back to signin default",
			flow: FlowSignIn,
			code: "something_new",
			want: "ログインに失敗しました。",
		},
		{
			name: "unknown code without raw message falls back to signup default",
			flow: FlowSignUp,
			code: "something_new",
			want: "アカウント作成に失敗しました。",
		},
		{
			name: "unknown code without raw message falls back to reset default",
			flow: FlowReset,
			code: "something_new",
			want: "処理に失敗しました。",
		},
		{
			name: "user_not_found is signin or reset specific, signup gets raw",
			flow: FlowSignUp,
			code: "user_not_found",
			raw:  "User not found",
			want: "User not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.flow, tt.code, tt.raw))
		})
	}
}
