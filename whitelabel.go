package launchkey

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// WhiteLabelUser is the enrollment material issued when a user is created
// in a white-label group: a QR code URL the paired-device app scans and
// the equivalent manual pairing code.
type WhiteLabelUser struct {
	QRCode string `json:"qrcode"`
	Code   string `json:"code"`
}

// whiteLabelRequest is the signed JSON body posted to the users endpoint.
type whiteLabelRequest struct {
	AppKey     string `json:"app_key"`
	SecretKey  string `json:"secret_key"`
	Identifier string `json:"identifier"`
}

// CreateWhiteLabelUser registers identifier with the white-label group
// tied to this client's keys and returns fresh pairing material. The
// identifier must be a stable, permanent handle for the user: the service
// creates the user on first call and re-issues pairing material on later
// ones.
//
// Unlike the other operations, the request signature covers the full JSON
// body and travels as a query parameter.
func (c *Client) CreateWhiteLabelUser(ctx context.Context, identifier string) (*WhiteLabelUser, error) {
	key, err := c.keys.publicKey(ctx)
	if err != nil {
		return nil, err
	}

	secretKey, _, err := c.env.encryptedSecret(key)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(whiteLabelRequest{
		AppKey:     c.appKey,
		SecretKey:  secretKey,
		Identifier: identifier,
	})
	if err != nil {
		return nil, &RequestError{Message: "marshal users request", Err: err}
	}

	signature, err := c.env.signBody(body)
	if err != nil {
		return nil, err
	}

	respBody, err := c.send(ctx, Request{
		Method: http.MethodPost,
		Path:   "users",
		Query:  url.Values{"signature": {signature}},
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Response struct {
			Cipher string `json:"cipher"`
			Data   string `json:"data"`
		} `json:"response"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &ResponseError{Message: "users response is not valid JSON", Err: err}
	}
	if resp.Response.Cipher == "" || resp.Response.Data == "" {
		return nil, &ResponseError{Message: "users response is missing cipher or data"}
	}

	plaintext, err := c.env.openCipherData(resp.Response.Cipher, resp.Response.Data)
	if err != nil {
		return nil, err
	}

	var user WhiteLabelUser
	if err := json.Unmarshal(plaintext, &user); err != nil {
		return nil, &ResponseError{Message: "white label user payload is not valid JSON", Err: err}
	}

	c.logger.Debugf("white label user created for identifier %s", identifier)
	return &user, nil
}
