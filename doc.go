// Package launchkey is a Go client SDK for the LaunchKey v1 API. It
// pushes authorization requests to a user's paired devices, polls for the
// verdict, records the outcome, creates white-label users, and routes the
// callbacks the service posts back to an application.
//
// Request credentials never travel in the clear: every call seals the API
// secret and a freshness timestamp into an RSA envelope encrypted with
// the service's published key, and signs the envelope with the
// application's private key. Responses that carry user data arrive
// encrypted the same way and are decrypted and validated before use.
//
// Example:
//
//	client, err := launchkey.New(appKey, secretKey, privateKeyPEM)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	auth, err := client.Authorize(ctx, "username", true)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.WaitForResponse(ctx, auth.ID)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.Authorized {
//		_ = client.Log(ctx, auth.ID, launchkey.ActionAuthenticate, true)
//	}
package launchkey
