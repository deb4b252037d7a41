// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package admin provides the admin console view: model configuration, the
knowledge base file list and the recent conversation log.

Each visit to the view opens a scope. Enter resets the three remote
resources and fetches them in parallel; Leave cancels the scope's context
so outstanding requests are abandoned and their results dropped. Results
are also tagged with a resource generation, so a refresh never lets an
older response overwrite a newer one.

Upload, delete and rebuild share one single-flight guard. While one of
them is in flight a second request is rejected with a status notice
rather than queued.
*/
package admin
