package middleware

func errorJSON(msg string) map[string]string {
	return map[string]string{"error": msg}
}
