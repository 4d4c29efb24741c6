package common

// UnknownStr is the fallback representation for enum values
// that have no dedicated name.
const UnknownStr = "unknown"
