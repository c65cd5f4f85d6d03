package errors

// Convenience functions for common error patterns

// Content errors

func NotFound(slug string, cause error) *SiteError {
	return Wrap(cause, CategoryNotFound, SeverityWarning, "page not found").
		WithContext("slug", slug)
}

func InvalidSlug(slug, reason string, cause error) *SiteError {
	return Wrap(cause, CategoryInvalidSlug, SeverityWarning, "invalid slug").
		WithContext("slug", slug).
		WithContext("reason", reason)
}

func ContentRead(path string, cause error) *SiteError {
	return Wrap(cause, CategoryContentRead, SeverityWarning, "content read failed").
		WithContext("path", path)
}

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Build errors

func BuildFailed(stage string, cause error) *SiteError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

func RenderFailed(page string, cause error) *SiteError {
	return Wrap(cause, CategoryRender, SeverityError, "page render failed").
		WithContext("page", page)
}

func OutputError(operation string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output operation failed").
		WithContext("operation", operation)
}

// Internal errors

func InternalError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
