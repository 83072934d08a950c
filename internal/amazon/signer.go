package amazon

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

const (
	signingAlgorithm = "AWS4-HMAC-SHA256"
	signingService   = "ProductAdvertisingAPI"
	scopeTerminator  = "aws4_request"
	keyPrefix        = "AWS4"

	searchItemsPath   = "/paapi5/searchitems"
	searchItemsTarget = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.SearchItems"
	contentType       = "application/json; charset=utf-8"
	contentEncoding   = "amz-1.0"
	signedHeaders     = "content-encoding;content-type;host;x-amz-date;x-amz-target"

	amzDateFormat   = "20060102T150405Z"
	dateStampFormat = "20060102"
)

// Signer produces AWS Signature Version 4 authorization for PA-API 5
// SearchItems requests. The canonical header set is fixed.
type Signer struct {
	accessKey string
	secretKey string
	region    string
	host      string
}

// NewSigner creates a Signer for the given credentials and endpoint.
func NewSigner(accessKey, secretKey, region, host string) *Signer {
	return &Signer{
		accessKey: accessKey,
		secretKey: secretKey,
		region:    region,
		host:      host,
	}
}

// Signature holds every intermediate value of one signing pass.
type Signature struct {
	AmzDate          string
	DateStamp        string
	CredentialScope  string
	CanonicalRequest string
	StringToSign     string
	Signature        string
	Authorization    string
}

// Sign computes the signature for body at time t (converted to UTC).
func (s *Signer) Sign(body []byte, t time.Time) Signature {
	t = t.UTC()
	sig := Signature{
		AmzDate:   t.Format(amzDateFormat),
		DateStamp: t.Format(dateStampFormat),
	}

	sig.CredentialScope = strings.Join([]string{
		sig.DateStamp, s.region, signingService, scopeTerminator,
	}, "/")
	sig.CanonicalRequest = CanonicalRequest(s.host, sig.AmzDate, body)
	sig.StringToSign = strings.Join([]string{
		signingAlgorithm,
		sig.AmzDate,
		sig.CredentialScope,
		hashHex([]byte(sig.CanonicalRequest)),
	}, "\n")

	key := SigningKey(s.secretKey, sig.DateStamp, s.region, signingService)
	sig.Signature = hex.EncodeToString(hmacSHA256(key, sig.StringToSign))
	sig.Authorization = signingAlgorithm +
		" Credential=" + s.accessKey + "/" + sig.CredentialScope +
		", SignedHeaders=" + signedHeaders +
		", Signature=" + sig.Signature
	return sig
}

// Apply sets the signed headers and Authorization on req.
func (*Signer) Apply(req *http.Request, sig Signature) {
	req.Header.Set("Content-Encoding", contentEncoding)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Amz-Date", sig.AmzDate)
	req.Header.Set("X-Amz-Target", searchItemsTarget)
	req.Header.Set("Authorization", sig.Authorization)
}

// CanonicalRequest builds the SearchItems canonical request: method, path,
// empty query, canonical headers in signed order, signed header names, and
// the hex SHA-256 of the body.
func CanonicalRequest(host, amzDate string, body []byte) string {
	canonicalHeaders := "content-encoding:" + contentEncoding + "\n" +
		"content-type:" + contentType + "\n" +
		"host:" + host + "\n" +
		"x-amz-date:" + amzDate + "\n" +
		"x-amz-target:" + searchItemsTarget + "\n"

	return strings.Join([]string{
		http.MethodPost,
		searchItemsPath,
		"",
		canonicalHeaders,
		signedHeaders,
		hashHex(body),
	}, "\n")
}

// SigningKey derives the request signing key by chaining HMAC-SHA256 over
// date stamp, region, service, and the scope terminator.
func SigningKey(secret, dateStamp, region, service string) []byte {
	kDate := hmacSHA256([]byte(keyPrefix+secret), dateStamp)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, service)
	return hmacSHA256(kService, scopeTerminator)
}

func hmacSHA256(key []byte, msg string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(msg))
	return h.Sum(nil)
}

func hashHex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
