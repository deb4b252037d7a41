// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the domain types shared by the chat and admin views.
//
// # Key Types
//
//   - Message: Single chat message with role, content and timestamp
//   - Conversation: Append-only ordered message history
//   - AdminConfig: Backend model selection and sampling temperature
//   - KnowledgeFile: A document present in the knowledge-base staging set
//   - LogEntry: One recorded question/answer exchange
//
// # Usage
//
//	conv := model.NewConversation(greeting)
//	conv.AddUserMessage("宝宝对鸡蛋过敏怎么办")
//	conv.AddAssistantMessage(answer)
//
//	cfg := model.AdminConfig{Model: "gpt-3.5-turbo", Temperature: 0.2}
//	cfg = cfg.CycleModel(1).StepTemperature(0.1)
package model
