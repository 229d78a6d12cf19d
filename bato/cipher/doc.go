/*
Package cipher recovers the image URLs that chapter pages hide behind an
encrypted payload.

A chapter page embeds three artifacts inside one inline script block:

 1. a JSON array of public base URLs (const imgHttps = [...]),
 2. an opaque expression whose evaluation yields a password (batoPass),
 3. a base64, salted, AES-encrypted word holding per-page query fragments
    (batoWord).

The package extracts the artifacts, obtains the password through an
evaluator.Evaluator, derives an AES-256 key and IV from the password and the
payload salt with the OpenSSL EVP_BytesToKey scheme (MD5), decrypts the word
in CBC mode, strips PKCS#7 padding strictly, and zips the decrypted fragments
with the base URLs positionally.

# Payload framing

After base64 decoding the word must look like OpenSSL "openssl enc" output:

	bytes [0:8)   ASCII "Salted__"
	bytes [8:16)  8-byte salt
	bytes [16:)   ciphertext, a positive multiple of the AES block size

# Errors

Failures carry one of the errs sentinels so callers can match stages with
errors.Is:

	errs.ErrExtractionFailed     script block or a literal missing/malformed
	errs.ErrEvaluatorFailed      password evaluation failed or returned junk
	errs.ErrDecodeFailed         base64 or payload framing invalid
	errs.ErrKeyDerivationFailed  bad KDF parameters
	errs.ErrCipherFailed         block alignment, padding, or garbled plaintext
	errs.ErrLengthMismatch       fragment count differs from base URL count

A failed stage short-circuits the pipeline; no partial URL list is ever
returned. Invalid PKCS#7 padding is treated as a failed decryption rather
than salvaged, so a wrong password surfaces as ErrCipherFailed instead of
mojibake URLs.

# Usage

	r := cipher.NewResolver(evaluator.Default())
	urls, err := r.ResolvePageURLs(ctx, pageHTML)
	if err != nil {
		if errors.Is(err, errs.ErrExtractionFailed) {
			// site markup changed
		}
		return err
	}

Resolution is stateless: nothing is cached between calls and key material
lives only for the duration of one Decrypt call. Multiple resolutions may run
concurrently.
*/
package cipher
