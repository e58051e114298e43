package usermanagement

var (
	credentialStore  CredentialStore
	otpStore         OtpStore
	attemptJournal   AttemptJournal
	pendingAuthStore PendingAuthStore
	institutionStore InstitutionStore
)

func Init(
	credentials CredentialStore,
	otps OtpStore,
	attempts AttemptJournal,
	pendingAuths PendingAuthStore,
	institutions InstitutionStore,
) {
	credentialStore = credentials
	otpStore = otps
	attemptJournal = attempts
	pendingAuthStore = pendingAuths
	institutionStore = institutions
}
