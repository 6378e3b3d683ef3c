// Package logger builds the application's slog.Logger: JSON or text
// output, environment presets, static service attributes and automatic
// injection of request-scoped values from context.
//
//	log := logger.New(
//		logger.WithProduction("bakekit"),
//		logger.WithContextExtractors(requestid.Extractor),
//	)
//	logger.SetAsDefault(log)
//
// The attr helpers keep field names consistent across the codebase:
// logger.TenantID(id), logger.Resource(res), logger.Error(err).
package logger
