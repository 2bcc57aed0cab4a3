package utils

// ErrorLogFormat defines the formatting string for error messages printed before exit.
const ErrorLogFormat = "Error: %v"
