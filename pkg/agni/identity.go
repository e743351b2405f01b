package agni

import (
	"context"
)

const (
	nadGetPath         = "/api/config.nad.get"
	sessionDetailsPath = "/api/session.details.get"
	clientGetPath      = "/api/identity.client.get"
)

// nasPortAttr is the RADIUS attribute carrying the switch interface.
const nasPortAttr = "Radius:IETF:NAS-Port-Id"

// NADName returns the name of a network access device (switch) by ID.
func (c *Client) NADName(ctx context.Context, nadID string) (string, error) {
	var data struct {
		Name string `json:"name"`
	}
	payload := map[string]string{"id": nadID, "orgID": c.orgID}
	if err := c.postJSON(ctx, nadGetPath, payload, &data); err != nil {
		return "", err
	}
	return data.Name, nil
}

// SessionNASPort returns the NAS-Port-Id input attribute of an auth request,
// or empty when the session details carry none.
func (c *Client) SessionNASPort(ctx context.Context, authReqID string) (string, error) {
	var data struct {
		InputAttrs map[string]string `json:"inputAttrs"`
	}
	payload := map[string]string{"authReqID": authReqID, "orgID": c.orgID}
	if err := c.postJSON(ctx, sessionDetailsPath, payload, &data); err != nil {
		return "", err
	}
	return data.InputAttrs[nasPortAttr], nil
}

// ClientInfo returns the extended identity record for a client MAC.
func (c *Client) ClientInfo(ctx context.Context, mac string) (Record, error) {
	var data Record
	payload := map[string]string{"mac": mac, "orgID": c.orgID}
	if err := c.postJSON(ctx, clientGetPath, payload, &data); err != nil {
		return nil, err
	}
	return data, nil
}
