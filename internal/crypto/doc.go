// Package crypto exposes the key and signature primitives of the publisher.
//
// Contents
//
//   - NIP-19 key codecs for nsec/npub and 64-hex keys (DecodeSecret,
//     EncodeSecret, DecodePublic, EncodePublic) on btcutil's bech32
//   - BIP-340 Schnorr signing and verification over secp256k1 (Schnorr,
//     Verify, DerivePublic, GenerateKeyPair)
//   - Best-effort memory wiping for sensitive byte slices (Wipe, WipeSecret)
//
// # Notes
//
// Secret keys use the fixed-size domain.SecretKey type, which never formats
// its bytes. Errors never quote secret input; callers should Wipe decoded
// secrets once the signature is produced.
package crypto
