// Package hinge implements a client SDK for the Hinge mobile API.
//
// The package has three layers:
//
//   - Client: the transport layer. It attaches the fixed device identity
//     and auth header set to every request and converts failures into
//     categorized *Error values (auth, request, transport). No retries are
//     performed here.
//   - The resource API methods on Client (LikeProfile, SendMessage,
//     Recommendations, Standouts, PublicProfiles, ...): thin typed
//     request/response mappings, one per endpoint. Wire field names are
//     preserved exactly as the mobile app sends them.
//   - MediaClient: raw and transform-parameterized image fetches from the
//     media CDN, with a media-specific header set.
//
// Example:
//
//	client := hinge.NewClient(hinge.Config{
//		AuthToken: token,
//		SessionID: sessionID,
//		UserID:    userID,
//		DeviceID:  deviceID,
//		InstallID: installID,
//	}, log)
//
//	recs, err := client.Recommendations(false, false)
//	if err != nil {
//		if hinge.IsAuth(err) {
//			// token expired, re-login
//		}
//		return err
//	}
package hinge
