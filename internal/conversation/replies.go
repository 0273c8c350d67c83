package conversation

// User-facing message texts. Kept in one place so flows stay readable and
// tests can assert against them.
const (
	msgLoginRequired = "🔒 This feature requires you to be logged in. Please use /login."

	msgWelcomeBack       = "Welcome back! What would you like to do?"
	msgWelcomeLogin      = "Welcome back! Please use /login with your email to access your account."
	msgWelcomeRegister   = "Welcome! Please use /register to create a new account."
	msgLoggedOut         = "You have been successfully logged out. Use /login to access your account again."
	msgUnknownCommand    = "Sorry, I don't know that command."
	msgIdleHintAuthed    = "I didn't catch that. Pick an option from the menu, or use /tutor, /quizme, /mysubjects."
	msgIdleHintAnonymous = "Please use /register to create an account or /login to access an existing one."

	msgRegisterPrompt    = "Let's create your account. Please enter your email address."
	msgAlreadyRegistered = "This email is already registered. Please /login or use a different email."
	msgRegisterSaved     = "✅ Registration complete! You can now use /login with your email."
	msgRegisterSaveFail  = "Couldn't save your data. Please try again."

	msgAlreadyLoggedIn = "You are already logged in."
	msgLoginPrompt     = "To log in, please enter your registered email address:"
	msgLoginSuccess    = "✅ Login successful! Welcome."
	msgLoginFailure    = "❌ Incorrect email or user not registered. Please try again or use /register."

	msgCancelAuthed    = "Action canceled. Returning to the main menu."
	msgCancelAnonymous = "Action canceled."

	msgStoreFetchFail = "Couldn't fetch your data right now. Please try again."

	msgNoSubjects       = "You have no subjects yet."
	msgSubjectsHeader   = "Your subjects:"
	msgAllSubjectsAdded = "You've added all available subjects!"
	msgChooseSubjectAdd = "Choose a subject to add:"
	msgAddSubjectFirst  = "You need to add a subject first! Use the '➕ Add Subject' button."
	msgRemoveLabel      = "❌ Remove"
	msgUnknownSubject   = "That subject isn't available."

	msgTutorChooseSubject   = "Which subject for tutoring?"
	msgTutorNotYours        = "That subject isn't on your list. Use /tutor to pick one of your subjects."
	msgTutorInitializingFmt = "Initializing %s Tutor... Please wait."
	msgTutorChattingFmt     = "👆 You are now chatting with the %s Tutor. Type /done to end the session."
	msgTutorConnectFail     = "Couldn't connect to the AI Tutor. Session ended."
	msgTutorSendFail        = "The tutor is unavailable right now. Session ended."
	msgTutorDone            = "Tutor session ended. What would you like to do next?"
	msgNoTutorSession       = "There's no active tutor session. Use /tutor to start one."

	msgQuizChooseSubject = "Which subject would you like a quiz on?"
	msgQuizFail          = "Sorry, an error occurred while creating your quiz. Please try again later."
	msgAIUnavailable     = "Sorry, the AI service is currently unavailable."
)
