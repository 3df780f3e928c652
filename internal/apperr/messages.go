package apperr

// Message is the same text in the three languages the mobile client renders.
type Message struct {
	EN string
	AR string
	FR string
}

var catalog = map[Code]Message{
	CodeInvalidRequest: {
		EN: "Invalid request",
		AR: "طلب غير صالح",
		FR: "Requête invalide",
	},
	CodeUnauthorized: {
		EN: "Authentication required",
		AR: "المصادقة مطلوبة",
		FR: "Authentification requise",
	},
	CodeForbidden: {
		EN: "Access denied",
		AR: "تم رفض الوصول",
		FR: "Accès refusé",
	},
	CodeInternal: {
		EN: "Internal server error",
		AR: "خطأ في الخادم",
		FR: "Erreur interne du serveur",
	},
	CodeProductNotFound: {
		EN: "Product not found",
		AR: "المنتج غير موجود",
		FR: "Produit introuvable",
	},
	CodeOrderNotFound: {
		EN: "Order not found",
		AR: "الطلب غير موجود",
		FR: "Commande introuvable",
	},
	CodeCollectionNotFound: {
		EN: "COD collection not found",
		AR: "عملية التحصيل غير موجودة",
		FR: "Encaissement introuvable",
	},
	CodeRouteNotFound: {
		EN: "Route not found",
		AR: "المسار غير موجود",
		FR: "Route introuvable",
	},
	CodeUserNotFound: {
		EN: "User not found",
		AR: "المستخدم غير موجود",
		FR: "Utilisateur introuvable",
	},
	CodeInsufficientStock: {
		EN: "Insufficient stock",
		AR: "المخزون غير كاف",
		FR: "Stock insuffisant",
	},
	CodeCODLimitExceeded: {
		EN: "Order total exceeds the cash on delivery limit",
		AR: "مجموع الطلب يتجاوز الحد الأقصى للدفع عند الاستلام",
		FR: "Le total dépasse la limite du paiement à la livraison",
	},
	CodeAgeVerification: {
		EN: "Age verification required for this order",
		AR: "يتطلب هذا الطلب التحقق من العمر",
		FR: "Vérification de l'âge requise pour cette commande",
	},
	CodeOrderNotCancellable: {
		EN: "Order cannot be cancelled",
		AR: "لا يمكن إلغاء الطلب",
		FR: "La commande ne peut pas être annulée",
	},
	CodeInvalidTransition: {
		EN: "Invalid order status transition",
		AR: "تغيير حالة الطلب غير مسموح",
		FR: "Changement de statut de commande invalide",
	},
	CodeCollectionProcessed: {
		EN: "COD collection already processed",
		AR: "تمت معالجة التحصيل مسبقا",
		FR: "Encaissement déjà traité",
	},
	CodeAmountMismatch: {
		EN: "Collected amount does not match the expected amount",
		AR: "المبلغ المحصل لا يطابق المبلغ المتوقع",
		FR: "Le montant encaissé ne correspond pas au montant attendu",
	},
	CodeInvalidCredentials: {
		EN: "Invalid email or password",
		AR: "البريد الإلكتروني أو كلمة المرور غير صحيحة",
		FR: "Email ou mot de passe invalide",
	},
	CodeEmailTaken: {
		EN: "Email is already registered",
		AR: "البريد الإلكتروني مسجل مسبقا",
		FR: "Cet email est déjà utilisé",
	},
}

// Lookup returns the localized messages for code, falling back to the
// internal error text for codes missing from the catalog.
func Lookup(code Code) Message {
	if m, ok := catalog[code]; ok {
		return m
	}
	return catalog[CodeInternal]
}
