package handlers

// CreateShortURLRequest is the request body for creating a short URL.
// Body and url are optional and url is nullable in the schema, so a missing or
// null value gets the same message as an empty one.
type CreateShortURLRequest struct {
	Body struct {
		_   struct{} `additionalProperties:"true"`
		URL string   `doc:"The URL to shorten" example:"www.example.com" json:"url,omitempty" nullable:"true" required:"false"`
	} `required:"false"`
}

// CreateShortURLResponse is the response for a successfully created short URL.
type CreateShortURLResponse struct {
	Body struct {
		ShortURL string `doc:"The short code" example:"V1StGX-zag-eng" json:"shortUrl"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"V1StGX-zag-eng" path:"code"`
}

// RedirectResponse sends the client to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `doc:"The original URL" header:"Location"`
}
