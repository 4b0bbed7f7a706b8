// Package restclient is a small JSON REST client bound to one endpoint.
//
// Requests carry an "Authorization: Token <token>" header, JSON content headers and a
// "<fqdn>:<identifier>" User-Agent. Paths are joined onto the endpoint with exactly one
// slash and repeated slashes are collapsed. Redirects are never followed; any non-2xx status
// is returned as an *HTTPError.
//
//	c, err := restclient.New(restclient.WithEndpoint("https://api.example.com/v1/"))
//	if err != nil {
//		return err
//	}
//	v, err := c.Get(ctx, "hypernode/", restclient.WithQueryParam("page", "2"))
package restclient
