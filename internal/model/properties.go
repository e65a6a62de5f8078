package model

// ResolveProperties merges the four property layers the server consults when
// a job runs, from lowest to highest precedence:
//
//	project-global < embedded-flow < runtime-supplied < job options
//
// The returned map is the effective option set for the job. Nil layers are
// allowed.
func ResolveProperties(jobOptions, runtime, embedded, global map[string]string) map[string]string {
	resolved := map[string]string{}
	for _, layer := range []map[string]string{global, embedded, runtime, jobOptions} {
		for k, v := range layer {
			resolved[k] = v
		}
	}
	return resolved
}
