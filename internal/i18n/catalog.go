// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

import (
	"golang.org/x/text/language"
)

// Catalog is the complete set of user-facing strings for one language.
type Catalog struct {
	Tag language.Tag

	// Branding
	Title    string
	Subtitle string

	// Chat
	Greeting         string
	InputPlaceholder string
	Thinking         string
	BackendError     string
	NetworkError     string
	UserLabel        string
	AssistantLabel   string
	ChatHelp         string

	// Navigation
	NavChat  string
	NavAdmin string

	// Login
	LoginTitle       string
	LoginPrompt      string
	LoginChecking    string
	LoginFailed      string
	LoginUnavailable string
	LoginHelp        string

	// Admin
	AdminTitle       string
	PaneConfig       string
	PaneFiles        string
	PaneLogs         string
	FieldModel       string
	FieldTemperature string
	ModelNotInList   string
	Loading          string
	Empty            string
	FetchFailed      string
	SaveOK           string
	SaveFailed       string
	UploadPrompt     string
	UploadOK         string
	UploadFailed     string
	RebuildRequired  string
	DeleteConfirm    string
	DeleteOK         string
	DeleteFailed     string
	UploadRunning    string
	DeleteRunning    string
	RebuildRunning   string
	RebuildFailed    string
	KBBusy           string
	ColTime          string
	ColQuestion      string
	ColAnswer        string
	ColSession       string
	AdminHelp        string

	// Dialogs
	DialogOK      string
	DialogConfirm string
	DialogError   string
	DialogNotice  string
	DialogWarning string
	DialogYesNo   string
	DialogAck     string
}

var zhHans = Catalog{
	Tag: language.SimplifiedChinese,

	Title:    "敏宝守护者 Pro",
	Subtitle: "您的专属儿科过敏营养顾问",

	Greeting:         "您好呀！我是敏宝守护者。宝宝最近有什么过敏问题吗？💕",
	InputPlaceholder: "请输入您的问题...",
	Thinking:         "正在思考...",
	BackendError:     "⚠️ 出错了：无法连接到大脑。",
	NetworkError:     "🚫 网络错误，请检查后端是否启动。",
	UserLabel:        "家长",
	AssistantLabel:   "敏宝守护者",
	ChatHelp:         "Enter 发送 · Alt+Enter 换行 · F2 管理后台 · Ctrl+C 退出",

	NavChat:  "咨询",
	NavAdmin: "管理后台",

	LoginTitle:       "管理员登录",
	LoginPrompt:      "请输入管理员口令",
	LoginChecking:    "正在验证...",
	LoginFailed:      "口令错误，请重试。",
	LoginUnavailable: "认证服务不可用：",
	LoginHelp:        "Enter 确认 · Esc 返回咨询",

	AdminTitle:       "管理后台",
	PaneConfig:       "模型配置",
	PaneFiles:        "知识库文件",
	PaneLogs:         "对话日志",
	FieldModel:       "模型",
	FieldTemperature: "温度",
	ModelNotInList:   "（不在预设列表中）",
	Loading:          "加载中...",
	Empty:            "暂无数据",
	FetchFailed:      "加载失败：",
	SaveOK:           "配置已保存",
	SaveFailed:       "保存配置失败",
	UploadPrompt:     "要上传的文件路径：",
	UploadOK:         "上传成功",
	UploadFailed:     "上传失败",
	RebuildRequired:  "文件已上传，但需要重建知识库后才会生效。",
	DeleteConfirm:    "确定要删除该文件吗？",
	DeleteOK:         "删除成功",
	DeleteFailed:     "删除失败",
	UploadRunning:    "正在上传文件...",
	DeleteRunning:    "正在删除文件...",
	RebuildRunning:   "正在重建知识库...",
	RebuildFailed:    "重建知识库失败",
	KBBusy:           "另一个知识库操作正在进行中",
	ColTime:          "时间",
	ColQuestion:      "问题",
	ColAnswer:        "回答",
	ColSession:       "会话",
	AdminHelp:        "Tab 切换 · ←/→ 调整 · s 保存 · u 上传 · d 删除 · r 重建 · Ctrl+R 刷新 · F1 咨询",

	DialogOK:      "确定",
	DialogConfirm: "确认",
	DialogError:   "错误",
	DialogNotice:  "提示",
	DialogWarning: "注意",
	DialogYesNo:   "y 确认 · n 取消",
	DialogAck:     "Enter 关闭",
}

var english = Catalog{
	Tag: language.English,

	Title:    "Minbao Guardian Pro",
	Subtitle: "Your pediatric allergy nutrition advisor",

	Greeting:         "Hello! I'm Minbao Guardian. Has your little one had any allergy trouble lately? 💕",
	InputPlaceholder: "Type your question...",
	Thinking:         "Thinking...",
	BackendError:     "⚠️ Something went wrong: the advisor could not answer.",
	NetworkError:     "🚫 Network error. Please check that the backend is running.",
	UserLabel:        "Parent",
	AssistantLabel:   "Guardian",
	ChatHelp:         "Enter send · Alt+Enter newline · F2 admin · Ctrl+C quit",

	NavChat:  "Chat",
	NavAdmin: "Admin",

	LoginTitle:       "Administrator Login",
	LoginPrompt:      "Enter the admin passphrase",
	LoginChecking:    "Verifying...",
	LoginFailed:      "Wrong passphrase, try again.",
	LoginUnavailable: "Credential service unavailable: ",
	LoginHelp:        "Enter submit · Esc back to chat",

	AdminTitle:       "Admin Console",
	PaneConfig:       "Model",
	PaneFiles:        "Knowledge Files",
	PaneLogs:         "Conversation Log",
	FieldModel:       "Model",
	FieldTemperature: "Temperature",
	ModelNotInList:   " (not in preset list)",
	Loading:          "Loading...",
	Empty:            "Nothing here yet",
	FetchFailed:      "Failed to load: ",
	SaveOK:           "Configuration saved",
	SaveFailed:       "Failed to save configuration",
	UploadPrompt:     "Path of file to upload: ",
	UploadOK:         "Upload complete",
	UploadFailed:     "Upload failed",
	RebuildRequired:  "File uploaded. Rebuild the knowledge base for it to take effect.",
	DeleteConfirm:    "Delete this file?",
	DeleteOK:         "File deleted",
	DeleteFailed:     "Delete failed",
	UploadRunning:    "Uploading file...",
	DeleteRunning:    "Deleting file...",
	RebuildRunning:   "Rebuilding knowledge base...",
	RebuildFailed:    "Knowledge base rebuild failed",
	KBBusy:           "Another knowledge-base operation is in progress",
	ColTime:          "Time",
	ColQuestion:      "Question",
	ColAnswer:        "Answer",
	ColSession:       "Session",
	AdminHelp:        "Tab switch · ←/→ adjust · s save · u upload · d delete · r rebuild · Ctrl+R refresh · F1 chat",

	DialogOK:      "OK",
	DialogConfirm: "Confirm",
	DialogError:   "Error",
	DialogNotice:  "Notice",
	DialogWarning: "Warning",
	DialogYesNo:   "y confirm · n cancel",
	DialogAck:     "Enter close",
}

var (
	catalogs = []*Catalog{&zhHans, &english}
	matcher  = language.NewMatcher([]language.Tag{zhHans.Tag, english.Tag})
)

// Default returns the Simplified Chinese catalog.
func Default() *Catalog {
	return &zhHans
}

// For returns the catalog best matching tag. Empty, malformed or
// unsupported tags resolve to the default catalog.
func For(tag string) *Catalog {
	if tag == "" {
		return Default()
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return Default()
	}
	_, idx, conf := matcher.Match(parsed)
	if conf == language.No {
		return Default()
	}
	return catalogs[idx]
}

// Supported lists the catalog language tags.
func Supported() []string {
	out := make([]string, 0, len(catalogs))
	for _, c := range catalogs {
		out = append(out, c.Tag.String())
	}
	return out
}
