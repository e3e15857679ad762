// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session resolves and gates on the authenticated identity.
//
// The Guard issues exactly one "who am I" request per instance and fails
// closed: an ok=false envelope, a transport failure, and a parse failure
// all resolve to "not logged in" and route to the login view. There is no
// retry; a failed resolution always navigates away from the protected
// views rather than looping.
//
// The resolved identity lives in a Store, a read-only broadcast value.
// Any consumer may read the current snapshot or subscribe for the change;
// only the Guard produces new values.
package session
